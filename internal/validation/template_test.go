package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validTemplate() *Template {
	return &Template{
		WindowStart:        "09:00",
		WindowEnd:          "18:00",
		SlotLengthMinutes:  30,
		BreakLengthMinutes: 5,
		LunchStart:         "13:00",
		LunchEnd:           "14:00",
		DefaultCapacity:    2,
		DefaultOverbook:    1,
	}
}

func TestValidateTemplate_Valid(t *testing.T) {
	v := New()

	errs := v.ValidateTemplate(validTemplate())
	assert.False(t, errs.HasErrors(), "unexpected errors: %v", errs)
}

func TestValidateTemplate_NoLunch(t *testing.T) {
	v := New()

	tpl := validTemplate()
	tpl.LunchStart = ""
	tpl.LunchEnd = ""

	errs := v.ValidateTemplate(tpl)
	assert.False(t, errs.HasErrors(), "unexpected errors: %v", errs)
}

func TestValidateTemplate_CollectsAllViolations(t *testing.T) {
	v := New()

	// Несколько нарушений сразу: валидатор не останавливается на первом
	tpl := &Template{
		WindowStart:        "18:00",
		WindowEnd:          "09:00",
		SlotLengthMinutes:  3,   // меньше минимума
		BreakLengthMinutes: -1,  // отрицательный перерыв
		DefaultCapacity:    0,   // меньше минимума
		DefaultOverbook:    -2,  // отрицательный
	}

	errs := v.ValidateTemplate(tpl)
	require.True(t, errs.HasErrors())
	assert.GreaterOrEqual(t, len(errs), 5)

	fields := make(map[string]bool)
	for _, fe := range errs {
		fields[fe.Field] = true
	}
	assert.True(t, fields["slotLengthMinutes"])
	assert.True(t, fields["breakLengthMinutes"])
	assert.True(t, fields["defaultCapacity"])
	assert.True(t, fields["defaultOverbook"])
	assert.True(t, fields["windowStart"])
}

func TestValidateTemplate_LunchRules(t *testing.T) {
	v := New()

	tests := []struct {
		name      string
		mutate    func(*Template)
		wantField string
	}{
		{
			name:      "lunch start after end",
			mutate:    func(tpl *Template) { tpl.LunchStart = "14:00"; tpl.LunchEnd = "13:00" },
			wantField: "lunchStart",
		},
		{
			name:      "lunch too short",
			mutate:    func(tpl *Template) { tpl.LunchStart = "13:00"; tpl.LunchEnd = "13:20" },
			wantField: "lunchEnd",
		},
		{
			name:      "lunch before window",
			mutate:    func(tpl *Template) { tpl.LunchStart = "08:00"; tpl.LunchEnd = "09:30" },
			wantField: "lunchStart",
		},
		{
			name:      "lunch after window",
			mutate:    func(tpl *Template) { tpl.LunchStart = "17:30"; tpl.LunchEnd = "19:00" },
			wantField: "lunchEnd",
		},
		{
			name:      "lunch end without start",
			mutate:    func(tpl *Template) { tpl.LunchStart = ""; tpl.LunchEnd = "14:00" },
			wantField: "lunchStart",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tpl := validTemplate()
			tt.mutate(tpl)

			errs := v.ValidateTemplate(tpl)
			require.True(t, errs.HasErrors())

			found := false
			for _, fe := range errs {
				if fe.Field == tt.wantField {
					found = true
				}
			}
			assert.True(t, found, "expected error for field %s, got %v", tt.wantField, errs)
		})
	}
}

func TestValidateTemplate_Idempotent(t *testing.T) {
	v := New()
	tpl := validTemplate()

	first := v.ValidateTemplate(tpl)
	second := v.ValidateTemplate(tpl)

	// Повторный прогон того же шаблона дает тот же результат
	assert.Equal(t, first, second)
}
