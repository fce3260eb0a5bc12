package classifier

import (
	"strings"

	"hkim/sales-report/internal/models"
)

// MinorRule is one step of the ordered sub-decision that picks the minor
// category once a rule's major category is fixed. The first step whose Any
// keyword appears in the product name wins.
type MinorRule struct {
	Any   []string
	Minor string
}

// Rule is one entry of the ordered decision list. A rule matches when every
// All keyword appears in the product name AND at least one Any keyword
// appears (an empty list imposes no constraint; a rule with both lists empty
// matches everything and serves as the catch-all).
//
// Keyword tests are exact substring containment, case- and
// diacritic-sensitive. No tokenization, no fuzzy matching.
type Rule struct {
	Name   string
	All    []string
	Any    []string
	Major  string
	Minors []MinorRule
	Minor  string // minor used when no Minors step fires
}

// Matches reports whether the rule fires for the given product name.
func (r Rule) Matches(name string) bool {
	for _, kw := range r.All {
		if !strings.Contains(name, kw) {
			return false
		}
	}
	if len(r.Any) == 0 {
		return true
	}
	for _, kw := range r.Any {
		if strings.Contains(name, kw) {
			return true
		}
	}
	return false
}

// Resolve picks the rule's category pair for the given product name,
// running the minor sub-decision in order.
func (r Rule) Resolve(name string) models.CategoryPair {
	for _, mr := range r.Minors {
		for _, kw := range mr.Any {
			if strings.Contains(name, kw) {
				return models.CategoryPair{Major: r.Major, Minor: mr.Minor}
			}
		}
	}
	return models.CategoryPair{Major: r.Major, Minor: r.Minor}
}

// catchAllRuleName marks the final rule of the table. A product name that
// reaches it is reported as unmatched so the fallback classifier gets a shot.
const catchAllRuleName = "default"

// DefaultRules is the ordered decision list for the product taxonomy.
// Ordering is load-bearing: evaluation stops at the first match, so narrower
// exception keywords must sit above the broad category keywords that would
// otherwise swallow them. 악세서리 keywords come before 테이블 and 데스크
// (a 가방걸이 sized for a 테이블 is still an accessory), and 모션데스크
// precedes the generic 데스크 rule.
var DefaultRules = []Rule{
	{
		Name: "악세서리",
		Any:  []string{"가방걸이", "헤드셋걸이", "컵홀더", "케이블정리", "타공판", "모니터암"},
		Major: "악세서리",
		Minors: []MinorRule{
			{Any: []string{"모니터암"}, Minor: "모니터암"},
			{Any: []string{"타공판"}, Minor: "타공판"},
		},
		Minor: "기타",
	},
	{
		Name: "부품-상판단품",
		All:  []string{"상판", "단품"},
		Major: "부품",
		Minor: "상판",
	},
	{
		Name: "서비스",
		Any:  []string{"배송비", "운송비", "설치비"},
		Major: "서비스",
		Minor: "배송설치",
	},
	{
		Name: "모션데스크",
		Any:  []string{"모션데스크", "모션 데스크"},
		Major: "모션데스크",
		Minors: []MinorRule{
			{Any: []string{"프리미엄"}, Minor: "프리미엄"},
			{Any: []string{"코너"}, Minor: "코너형"},
		},
		Minor: "베이직",
	},
	{
		Name: "데스크",
		Any:  []string{"데스크", "책상"},
		Major: "데스크",
		Minors: []MinorRule{
			{Any: []string{"전동"}, Minor: "전동"},
			{Any: []string{"수동"}, Minor: "수동"},
		},
		Minor: "일반",
	},
	{
		Name: "테이블-회의용",
		Any:  []string{"회의테이블", "미팅테이블"},
		Major: "테이블",
		Minor: "회의용",
	},
	{
		Name: "테이블",
		Any:  []string{"테이블"},
		Major: "테이블",
		Minors: []MinorRule{
			{Any: []string{"리프트"}, Minor: "리프트"},
			{Any: []string{"사이드"}, Minor: "사이드"},
		},
		Minor: "사무용",
	},
	{
		Name: "체어",
		Any:  []string{"체어", "의자"},
		Major: "체어",
		Minors: []MinorRule{
			{Any: []string{"메쉬"}, Minor: "메쉬"},
			{Any: []string{"패브릭"}, Minor: "패브릭"},
		},
		Minor: "기타",
	},
	{
		Name: "수납",
		Any:  []string{"서랍", "캐비닛", "수납"},
		Major: "수납",
		Minors: []MinorRule{
			{Any: []string{"서랍"}, Minor: "서랍"},
			{Any: []string{"캐비닛"}, Minor: "캐비닛"},
		},
		Minor: "기타",
	},
	{
		Name: "파티션",
		Any:  []string{"파티션", "칸막이"},
		Major: "파티션",
		Minor: "기본",
	},
	// The catch-all keeps "no rule fired at all" reserved for a broken
	// table; hitting it is reported as unmatched so the fallback runs.
	{
		Name:  catchAllRuleName,
		Major: models.MajorUnclassified,
		Minor: models.MinorOther,
	},
}
