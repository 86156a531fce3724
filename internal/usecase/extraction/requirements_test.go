package extraction

import (
	"strings"
	"testing"

	"github.com/meetscribe/meetscribe/internal/domain/entities"
)

func TestMapRequirements_OrderAndIDs(t *testing.T) {
	summary := entities.NewMeetingSummary()
	summary.ActionItems = []entities.ActionItem{
		entities.NewActionItem("John will send the report by Friday"),
		entities.NewActionItem("Sarah must update the onboarding docs"),
	}
	summary.KeyDecisions = []string{"We decided to use PostgreSQL"}

	reqs := MapRequirements(summary, nil)
	if len(reqs) != 3 {
		t.Fatalf("expected 3 requirements, got %d", len(reqs))
	}

	wantIDs := []string{"REQ-001", "REQ-002", "REQ-003"}
	for i, want := range wantIDs {
		if reqs[i].ID != want {
			t.Errorf("requirement %d: id got %q, want %q", i, reqs[i].ID, want)
		}
	}

	// action items map before decisions
	if reqs[0].Source != entities.RequirementSourceActionItem {
		t.Errorf("first requirement source: got %q", reqs[0].Source)
	}
	if reqs[2].Source != entities.RequirementSourceDecision {
		t.Errorf("last requirement source: got %q", reqs[2].Source)
	}
}

func TestMapRequirements_AcceptanceCriteriaNeverEmpty(t *testing.T) {
	summary := entities.NewMeetingSummary()
	summary.ActionItems = []entities.ActionItem{entities.NewActionItem("Fix login")}
	summary.KeyDecisions = []string{"Agreed"}

	for _, req := range MapRequirements(summary, nil) {
		if len(req.AcceptanceCriteria) == 0 {
			t.Errorf("requirement %s has no acceptance criteria", req.ID)
		}
	}
}

func TestMapRequirements_FieldsCarriedFromActionItem(t *testing.T) {
	item := entities.NewActionItem("Sarah must encrypt the backups urgently")
	item.Assignee = "Sarah"
	item.DueDate = "Friday"
	item.Priority = entities.ActionItemPriorityHigh

	summary := entities.NewMeetingSummary()
	summary.ActionItems = []entities.ActionItem{item}

	reqs := MapRequirements(summary, nil)
	req := reqs[0]
	if req.Assignee != "Sarah" || req.DueDate != "Friday" {
		t.Errorf("assignee/due date not carried: %+v", req)
	}
	if req.Priority != entities.ActionItemPriorityHigh {
		t.Errorf("priority: got %q, want high", req.Priority)
	}
	if req.Status != entities.RequirementStatusOpen {
		t.Errorf("status: got %q, want open", req.Status)
	}
}

func TestClassifyType(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"Implement the export endpoint", entities.RequirementTypeFunctional},
		{"Response time under 200ms and uptime above 99.9%", entities.RequirementTypeNonFunctional},
		{"All data must be encrypted at rest", entities.RequirementTypeNonFunctional},
		{"Discuss it next week", entities.RequirementTypeFunctional},
	}
	for _, tt := range tests {
		if got := classifyType(tt.text); got != tt.want {
			t.Errorf("%q: got %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestTruncateTitle(t *testing.T) {
	short := "Short title"
	if got := truncateTitle(short); got != short {
		t.Errorf("short title changed: %q", got)
	}

	long := "This extremely verbose sentence describes an action item in far too much detail"
	got := truncateTitle(long)
	if !strings.HasSuffix(got, "...") {
		t.Errorf("expected ellipsis suffix, got %q", got)
	}
	if len(got) > maxTitleLength+3 {
		t.Errorf("title too long (%d): %q", len(got), got)
	}
	// cut must land on a word boundary
	trimmed := strings.TrimSuffix(got, "...")
	if !strings.Contains(long, trimmed) {
		t.Errorf("truncation broke a word: %q", got)
	}
}

func TestRelatedDecisions_SharedTokens(t *testing.T) {
	summary := entities.NewMeetingSummary()
	summary.ActionItems = []entities.ActionItem{
		entities.NewActionItem("Tom will prepare the database migration runbook"),
	}
	summary.KeyDecisions = []string{
		"We decided the database migration happens in stages",
		"We agreed lunch moves to noon",
	}

	keyPhrases := []string{"database migration", "runbook", "stages"}
	reqs := MapRequirements(summary, keyPhrases)

	related := reqs[0].RelatedDecisions
	if len(related) != 1 {
		t.Fatalf("expected 1 related decision, got %v", related)
	}
	if !strings.Contains(related[0], "database migration") {
		t.Errorf("wrong decision linked: %q", related[0])
	}
}

func TestAcceptanceCriteria_SplitsClauses(t *testing.T) {
	got := acceptanceCriteria("Export the data as CSV and validate the column headers")
	if len(got) != 2 {
		t.Fatalf("expected 2 criteria, got %v", got)
	}
}

func TestAcceptanceCriteria_SingleClauseSynthesized(t *testing.T) {
	got := acceptanceCriteria("John will send the report by Friday")
	if len(got) != 1 {
		t.Fatalf("expected 1 criterion, got %v", got)
	}
	want := `Given the meeting context, "John will send the report by Friday" is completed.`
	if got[0] != want {
		t.Errorf("criterion got %q, want %q", got[0], want)
	}
}

func TestMapRequirements_DecisionLinksToItself(t *testing.T) {
	summary := entities.NewMeetingSummary()
	summary.KeyDecisions = []string{"We decided to use PostgreSQL"}

	reqs := MapRequirements(summary, nil)
	if len(reqs) != 1 {
		t.Fatalf("expected 1 requirement, got %d", len(reqs))
	}
	related := reqs[0].RelatedDecisions
	if len(related) != 1 || related[0] != "We decided to use PostgreSQL" {
		t.Errorf("decision requirement not linked to its decision: %v", related)
	}
}
