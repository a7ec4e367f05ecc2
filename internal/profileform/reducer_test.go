package profileform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/advisor-match/internal/model"
)

func ptr(v float64) *float64 { return &v }

func TestReduce_Text(t *testing.T) {
	t.Parallel()

	f, err := Reduce(model.AdvisorProfileForm{}, TextAction{Field: "name", Value: "Sarah Johnson"})
	require.NoError(t, err)
	assert.Equal(t, "Sarah Johnson", f.Name)

	f, err = Reduce(f, TextAction{Field: "linkedinUrl", Value: "https://linkedin.com/in/sarah"})
	require.NoError(t, err)
	assert.Equal(t, "https://linkedin.com/in/sarah", f.LinkedIn)
}

func TestReduce_DoesNotMutateInput(t *testing.T) {
	t.Parallel()

	orig := model.AdvisorProfileForm{Expertise: model.NewStringSet("tax")}
	next, err := Reduce(orig, ToggleAction{Field: FieldExpertise, Value: "estate"})
	require.NoError(t, err)

	assert.Equal(t, []string{"tax"}, orig.Expertise.Values())
	assert.Equal(t, []string{"tax", "estate"}, next.Expertise.Values())
}

func TestReduce_Checkbox(t *testing.T) {
	t.Parallel()

	f, err := Reduce(model.AdvisorProfileForm{}, CheckboxAction{Field: "consentToTerms", Checked: true})
	require.NoError(t, err)
	assert.True(t, f.ConsentToTerms)
}

func TestReduce_NumericPricingNested(t *testing.T) {
	t.Parallel()

	f, err := Reduce(model.AdvisorProfileForm{}, NumericAction{Field: FieldHourlyRate, Value: ptr(175)})
	require.NoError(t, err)
	f, err = Reduce(f, NumericAction{Field: FieldPortfolioFee, Value: ptr(1.25)})
	require.NoError(t, err)

	assert.InDelta(t, 175.0, f.Pricing.HourlyRate, 0.001)
	assert.InDelta(t, 1.25, f.Pricing.PortfolioFee, 0.001)
}

func TestReduce_NegativeRepresentable(t *testing.T) {
	t.Parallel()

	f, err := Reduce(model.AdvisorProfileForm{}, NumericAction{Field: FieldAssetsUnderManagement, Value: ptr(-5)})
	require.NoError(t, err)
	assert.InDelta(t, -5.0, f.AssetsUnderManagement, 0.001)
}

func TestReduce_MinimumInvestmentNullable(t *testing.T) {
	t.Parallel()

	f, err := Reduce(model.AdvisorProfileForm{}, NumericAction{Field: FieldMinimumInvestment, Value: ptr(100000)})
	require.NoError(t, err)
	require.NotNil(t, f.MinimumInvestment)
	assert.InDelta(t, 100000.0, *f.MinimumInvestment, 0.001)

	f, err = Reduce(f, NumericAction{Field: FieldMinimumInvestment})
	require.NoError(t, err)
	assert.Nil(t, f.MinimumInvestment)
}

func TestReduce_NumericNilZeroes(t *testing.T) {
	t.Parallel()

	f := model.AdvisorProfileForm{AssetsUnderManagement: 10}
	f, err := Reduce(f, NumericAction{Field: FieldAssetsUnderManagement})
	require.NoError(t, err)
	assert.Zero(t, f.AssetsUnderManagement)
}

func TestHandleMultiSelectChange_TwiceRestores(t *testing.T) {
	t.Parallel()

	for _, field := range []string{FieldExpertise, FieldLanguages, FieldPreferredClientTypes, FieldPreferredMeetingMethods} {
		t.Run(field, func(t *testing.T) {
			t.Parallel()

			orig := model.AdvisorProfileForm{
				Expertise:               model.NewStringSet("retirement"),
				Languages:               model.NewStringSet("english"),
				PreferredClientTypes:    model.NewStringSet("families"),
				PreferredMeetingMethods: model.NewStringSet("video"),
			}
			once, err := HandleMultiSelectChange(orig, field, "tax")
			require.NoError(t, err)
			twice, err := HandleMultiSelectChange(once, field, "tax")
			require.NoError(t, err)

			assert.Equal(t, orig, twice)
		})
	}
}

func TestReduce_Settings(t *testing.T) {
	t.Parallel()

	f, err := Reduce(model.AdvisorProfileForm{}, SettingAction{Field: "smsNotifications", Enabled: true})
	require.NoError(t, err)
	assert.True(t, f.Settings.SMSNotifications)
}

func TestReduce_AvailabilityAndTestimonials(t *testing.T) {
	t.Parallel()

	f := model.AdvisorProfileForm{}
	var err error
	f, err = Reduce(f, AddAvailabilityAction{Slot: model.AvailabilitySlot{Day: "monday", StartTime: "09:00", EndTime: "12:00"}})
	require.NoError(t, err)
	f, err = Reduce(f, AddAvailabilityAction{Slot: model.AvailabilitySlot{Day: "friday", StartTime: "13:00", EndTime: "17:00"}})
	require.NoError(t, err)
	f, err = Reduce(f, RemoveAvailabilityAction{Index: 0})
	require.NoError(t, err)
	require.Len(t, f.Availability, 1)
	assert.Equal(t, "friday", f.Availability[0].Day)

	f, err = Reduce(f, AddTestimonialAction{Testimonial: model.Testimonial{Author: "J.", Quote: "Great", Rating: 5}})
	require.NoError(t, err)
	require.Len(t, f.Testimonials, 1)

	f, err = Reduce(f, RemoveTestimonialAction{Index: 0})
	require.NoError(t, err)
	assert.Empty(t, f.Testimonials)
}

func TestReduce_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		action Action
		want   error
	}{
		{"text on numeric field", TextAction{Field: FieldMinimumInvestment, Value: "1"}, ErrUnknownField},
		{"unknown text", TextAction{Field: "nickname", Value: "x"}, ErrUnknownField},
		{"unknown checkbox", CheckboxAction{Field: "name"}, ErrUnknownField},
		{"unknown numeric", NumericAction{Field: "name"}, ErrUnknownField},
		{"unknown toggle", ToggleAction{Field: "province", Value: "ON"}, ErrUnknownField},
		{"unknown setting", SettingAction{Field: "darkMode"}, ErrUnknownField},
		{"remove availability oob", RemoveAvailabilityAction{Index: 0}, ErrIndexOutOfRange},
		{"remove testimonial negative", RemoveTestimonialAction{Index: -1}, ErrIndexOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			orig := model.AdvisorProfileForm{Name: "keep"}
			got, err := Reduce(orig, tt.action)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, "keep", got.Name)
		})
	}
}

func TestFields(t *testing.T) {
	t.Parallel()

	fields := Fields()
	assert.Contains(t, fields[KindText], "name")
	assert.Contains(t, fields[KindNumeric], FieldMinimumInvestment)
	assert.Contains(t, fields[KindToggle], FieldLanguages)
	assert.Contains(t, fields[KindSetting], "profileVisible")
	assert.Contains(t, fields[KindCheckbox], "consentToContact")
}
