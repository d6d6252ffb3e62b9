package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio-editor/internal/model"
)

const backendProse = "We need a backend engineer to design APIs and microservices, " +
	"scale our PostgreSQL database and Redis caching layer, and keep the queue " +
	"driven server architecture healthy."

func TestInferJobTypeBackend(t *testing.T) {
	doc := model.Document{"job_description": backendProse}
	got := InferJobType(doc)

	assert.Equal(t, "backend", got.CategoryID)
	assert.Equal(t, "Backend Engineering", got.Category)
	assert.NotEmpty(t, got.Matches)
	assert.Contains(t, got.Matches, "backend")
	assert.GreaterOrEqual(t, got.Confidence, 0.35)
	assert.LessOrEqual(t, got.Confidence, 0.95)
}

func TestInferJobTypeEmptyFallsBackToGeneral(t *testing.T) {
	got := InferJobType(model.Document{})
	assert.Equal(t, "general", got.CategoryID)
	assert.Equal(t, "General", got.Category)
	assert.Zero(t, got.Confidence)
	assert.Empty(t, got.Matches)
}

func TestInferJobTypeUsesRawSkillSidecar(t *testing.T) {
	doc := model.Document{
		"job_description": "Own our infrastructure automation and cloud deployment story.",
		"raw": map[string]interface{}{
			"job_description_skills": []interface{}{"Kubernetes", "Terraform", "AWS"},
		},
	}
	got := InferJobType(doc)

	assert.Equal(t, "devops", got.CategoryID)
	assert.Contains(t, got.MatchedSkills, "kubernetes")
}

func TestInferResumeJobTypePrefersRawText(t *testing.T) {
	doc := model.Document{
		"summary": "Product designer focused on user research.",
		"raw": map[string]interface{}{
			"raw_resume_text": backendProse,
		},
	}
	got := InferResumeJobType(doc)
	assert.Equal(t, "backend", got.CategoryID)
}

func TestInferResumeJobTypeFallsBackToFragments(t *testing.T) {
	doc := model.Document{
		"summary": "Frontend engineer building accessible user interface components for responsive web applications in the browser.",
		"skills":  []interface{}{"React", "TypeScript", "CSS"},
		"experience": []interface{}{
			map[string]interface{}{
				"role":    "Frontend Engineer",
				"company": "Acme",
				"bullets": []interface{}{"Led the design system rollout"},
			},
		},
	}
	got := InferResumeJobType(doc)

	assert.Equal(t, "frontend", got.CategoryID)
	assert.Contains(t, got.MatchedSkills, "react")
	assert.GreaterOrEqual(t, got.Confidence, 0.35)
	assert.LessOrEqual(t, got.Confidence, 0.95)
}

func TestInferResumeJobTypeEmptyDocument(t *testing.T) {
	got := InferResumeJobType(model.Document{})
	assert.Equal(t, "general", got.CategoryID)
}

func TestJobTypeRoundTripsThroughMap(t *testing.T) {
	doc := model.Document{"job_description": backendProse}
	original := InferJobType(doc)
	doc["job_type"] = original.ToMap()

	decoded := doc.JobTypeRecord("job_type")
	require.Equal(t, original.CategoryID, decoded.CategoryID)
	assert.Equal(t, original.Confidence, decoded.Confidence)
	assert.Equal(t, original.Matches, decoded.Matches)
}
