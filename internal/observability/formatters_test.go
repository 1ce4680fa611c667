package observability

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/requirement-resolver/internal/types"
)

func TestPrintRequirements(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintRequirements([]types.Requirement{
		{ID: "r1", Canonical: "Terraform", Type: types.TypeTool, Weight: 60, MustHave: true},
		{ID: "r2", Canonical: "Kubernetes", Type: types.TypePlatform, Weight: 40},
	})

	out := buf.String()
	assert.Contains(t, out, "REQUIREMENTS")
	assert.Contains(t, out, "Terraform")
	assert.Contains(t, out, "[must-have]")
	assert.Contains(t, out, "Total requirements: 2")
}

func TestPrintRequirements_Empty(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintRequirements(nil)
	assert.Empty(t, buf.String())
}

func TestPrintReport(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintReport([]types.ReportEntry{
		{RequirementID: "r1", Canonical: "Python", Status: types.StatusAlreadyMentioned, MatchedPath: "subtitle"},
		{RequirementID: "r2", Canonical: "Terraform", Status: types.StatusEdited, EditedPath: "experience[0].bullets[0]"},
		{RequirementID: "r3", Canonical: "COBOL", Status: types.StatusUnresolved, Reason: "not supported by the work history"},
	})

	out := buf.String()
	assert.Contains(t, out, "RESOLUTION REPORT")
	assert.Contains(t, out, "Resolved 2 of 3")
	assert.Contains(t, out, "✓ Python")
	assert.Contains(t, out, "✎ Terraform")
	assert.Contains(t, out, "✗ COBOL")
}

func TestPrintOperations(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintOperations([]types.EditOperation{
		{Op: "replace", Path: "experience[0].bullets[0]", Value: "Built pipelines with Terraform"},
	})

	out := buf.String()
	assert.Contains(t, out, "PROPOSED EDITS")
	assert.Contains(t, out, "experience[0].bullets[0]")
}

func TestPrintOperations_Empty(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintOperations(nil)
	assert.Contains(t, buf.String(), "NO EDITS PROPOSED")
}

func TestPrintTransientNotice(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintTransientNotice(&types.ResolveResult{TransientFailure: true})
	assert.Contains(t, buf.String(), "PLEASE RETRY")

	buf.Reset()
	p.PrintTransientNotice(&types.ResolveResult{})
	assert.Empty(t, buf.String())
}
