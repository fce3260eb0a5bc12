package classifier

import (
	"testing"

	"hkim/sales-report/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestClassifyRuleTable(t *testing.T) {
	tests := []struct {
		name      string
		product   string
		wantMajor string
		wantMinor string
	}{
		// 악세서리
		{"accessory bag hook", "데스크용 가방걸이", "악세서리", "기타"},
		{"accessory headset hook", "헤드셋걸이 화이트", "악세서리", "기타"},
		{"accessory cup holder", "컵홀더", "악세서리", "기타"},
		{"accessory monitor arm minor", "듀얼 모니터암", "악세서리", "모니터암"},
		{"accessory pegboard minor", "타공판 세트", "악세서리", "타공판"},

		// 부품: both keywords required
		{"part top only", "상판 단품 1200", "부품", "상판"},

		// 서비스
		{"service delivery", "제주 배송비", "서비스", "배송설치"},
		{"service install", "설치비 추가", "서비스", "배송설치"},

		// 모션데스크 before 데스크
		{"motion desk basic", "모션데스크 1400", "모션데스크", "베이직"},
		{"motion desk premium", "모션데스크 프리미엄 1600", "모션데스크", "프리미엄"},
		{"motion desk corner", "모션데스크 코너 L형", "모션데스크", "코너형"},
		{"motion desk spaced", "모션 데스크 기본형", "모션데스크", "베이직"},

		// 데스크
		{"desk electric", "전동 데스크", "데스크", "전동"},
		{"desk manual", "수동 책상", "데스크", "수동"},
		{"desk plain", "일자형 책상 1200", "데스크", "일반"},

		// 테이블
		{"meeting table", "회의테이블 1800", "테이블", "회의용"},
		{"meeting table alt", "미팅테이블", "테이블", "회의용"},
		{"lift table", "리프트 테이블", "테이블", "리프트"},
		{"side table", "사이드테이블 미니", "테이블", "사이드"},
		{"office table", "사무용 테이블", "테이블", "사무용"},

		// 체어
		{"chair mesh", "메쉬 체어", "체어", "메쉬"},
		{"chair fabric", "패브릭 의자", "체어", "패브릭"},
		{"chair plain", "중역 의자", "체어", "기타"},

		// 수납
		{"storage drawer", "3단 서랍", "수납", "서랍"},
		{"storage cabinet", "철제 캐비닛", "수납", "캐비닛"},
		{"storage generic", "수납장", "수납", "기타"},

		// 파티션
		{"partition", "파티션 1200", "파티션", "기본"},
		{"partition alt", "책상 칸막이", "파티션", "기본"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pair, ok := Classify(tt.product)
			assert.True(t, ok, "expected a rule to match %q", tt.product)
			assert.Equal(t, tt.wantMajor, pair.Major)
			assert.Equal(t, tt.wantMinor, pair.Minor)
		})
	}
}

func TestClassifyNegativeCases(t *testing.T) {
	// Names no non-catch-all rule covers come back as the sentinel pair with
	// ok=false so the fallback classifier gets them.
	for _, product := range []string{
		"상판 1400",     // 상판 without 단품: the 부품 rule needs both
		"스탠딩 매트",
		"USB 허브",
		"",
	} {
		pair, ok := Classify(product)
		assert.False(t, ok, "no rule should resolve %q", product)
		assert.Equal(t, models.DefaultPair(), pair)
	}
}

func TestClassifyOrderingConflicts(t *testing.T) {
	// First match wins: a name containing keywords from several rules must
	// resolve to the one listed first.
	tests := []struct {
		product   string
		wantMajor string
		wantMinor string
	}{
		// 악세서리 sits above 테이블
		{"테이블용 가방걸이", "악세서리", "기타"},
		// 모션데스크 sits above the generic 데스크 rule
		{"모션데스크 프리미엄", "모션데스크", "프리미엄"},
		// 테이블-회의용 sits above the generic 테이블 rule
		{"회의테이블 리프트형", "테이블", "회의용"},
		// 서비스 beats the 데스크 keyword later in the name
		{"데스크 배송비", "서비스", "배송설치"},
	}

	for _, tt := range tests {
		pair, ok := Classify(tt.product)
		assert.True(t, ok)
		assert.Equal(t, tt.wantMajor, pair.Major, "product %q", tt.product)
		assert.Equal(t, tt.wantMinor, pair.Minor, "product %q", tt.product)
	}
}

func TestRuleTableShape(t *testing.T) {
	// The catch-all must be the last rule and must match anything, so the
	// table can never fail to answer.
	last := DefaultRules[len(DefaultRules)-1]
	assert.Equal(t, catchAllRuleName, last.Name)
	assert.Empty(t, last.All)
	assert.Empty(t, last.Any)
	assert.True(t, last.Matches("아무거나"))

	for _, rule := range DefaultRules[:len(DefaultRules)-1] {
		assert.NotEqual(t, catchAllRuleName, rule.Name)
		assert.NotEmpty(t, rule.Major, "rule %s", rule.Name)
		assert.NotEmpty(t, rule.Minor, "rule %s needs a default minor", rule.Name)
	}
}

func TestRuleMatchesAllAndAny(t *testing.T) {
	rule := Rule{All: []string{"상판"}, Any: []string{"단품", "교체"}}

	assert.True(t, rule.Matches("상판 단품"))
	assert.True(t, rule.Matches("상판 교체용"))
	assert.False(t, rule.Matches("상판 1200"), "Any constraint unmet")
	assert.False(t, rule.Matches("단품"), "All constraint unmet")
}
