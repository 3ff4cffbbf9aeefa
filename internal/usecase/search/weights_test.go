package search

import (
	"testing"

	"github.com/localmart/khoj/internal/domain/entity"
	"github.com/localmart/khoj/internal/domain/search/match"
)

func TestScoreEntity_ExactNameIsTen(t *testing.T) {
	e := testEntity(t, entity.Product, "basmati-1kg", "PRD-MAN-001", "Basmati Rice", entity.Attrs{
		Brand: "India Gate",
		Stock: 5,
	})
	es := scoreEntity(&e, "basmati rice")
	if es.score != 10 {
		t.Errorf("exact name score = %.2f, want exactly 10", es.score)
	}
	if es.matchType != match.Exact {
		t.Errorf("matchType = %q, want exact", es.matchType)
	}
	if len(es.matchedFields) == 0 || es.matchedFields[0] != "name" {
		t.Errorf("matchedFields = %v, want [name]", es.matchedFields)
	}
}

func TestScoreEntity_LocalizedNameCountsAsExact(t *testing.T) {
	e := testEntity(t, entity.Product, "basmati-1kg", "PRD-MAN-001", "Basmati Rice", entity.Attrs{
		LocalizedName: "बासमती चावल",
		Stock:         5,
	})
	es := scoreEntity(&e, "बासमती चावल")
	if es.score != 10 {
		t.Errorf("exact localized-name score = %.2f, want 10", es.score)
	}
	if es.matchType != match.Exact {
		t.Errorf("matchType = %q, want exact", es.matchType)
	}
}

func TestScoreEntity_LowerWeightFieldNeverExact(t *testing.T) {
	// Same text, but only in the brand field (weight 2 of 3): the weighted
	// score must stay strictly below 10 even on an exact brand hit.
	e := testEntity(t, entity.Product, "atta-5kg", "PRD-MAN-004", "Whole Wheat Atta", entity.Attrs{
		Brand: "Aashirvaad",
		Stock: 5,
	})
	es := scoreEntity(&e, "aashirvaad")
	if es.score >= 10 {
		t.Errorf("brand-only match scored %.2f, must stay below 10", es.score)
	}
	if es.matchType != match.Brand {
		t.Errorf("matchType = %q, want brand", es.matchType)
	}
}

func TestScoreEntity_BestFieldWinsNotSum(t *testing.T) {
	// Many weak tag hits must not add up past one clean name match.
	tagged := testEntity(t, entity.Product, "rice-mix", "PRD-MAN-005", "Breakfast Mix", entity.Attrs{
		Tags:  []string{"rice", "rice flakes", "rice snack", "rice puff"},
		Stock: 5,
	})
	named := testEntity(t, entity.Product, "plain-rice", "PRD-MAN-006", "Rice", entity.Attrs{
		Stock: 5,
	})

	tagScore := scoreEntity(&tagged, "rice")
	nameScore := scoreEntity(&named, "rice")
	if tagScore.score >= nameScore.score {
		t.Errorf("tag pile-up %.2f should not reach name match %.2f", tagScore.score, nameScore.score)
	}
}

func TestScoreEntity_CategoryMatchType(t *testing.T) {
	e := testEntity(t, entity.Shop, "sharma-kirana", "SHP-KIR-001", "Sharma Store", entity.Attrs{
		Category: "Groceries",
	})
	es := scoreEntity(&e, "groceries")
	if es.matchType != match.Category {
		t.Errorf("matchType = %q, want category", es.matchType)
	}
}

func TestScoreEntity_ServiceHighlights(t *testing.T) {
	e := testEntity(t, entity.Service, "quick-plumber", "SRV-PLM-001", "Quick Plumbing", entity.Attrs{
		Highlights: []string{"24x7 emergency"},
	})
	es := scoreEntity(&e, "emergency")
	if es.score <= 0 {
		t.Error("highlight text should be searchable for services")
	}
}

func TestScoreEntity_NoMatch(t *testing.T) {
	e := testEntity(t, entity.Office, "passport-office", "OFF-GOV-001", "Passport Seva Kendra", entity.Attrs{})
	es := scoreEntity(&e, "biryani")
	if es.score != 0 {
		t.Errorf("unrelated query scored %.2f, want 0", es.score)
	}
}
