package profileform

import (
	"strconv"
	"strings"
)

// ControlEvent is the raw change event emitted by an HTML-style form control.
type ControlEvent struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Value   string `json:"value"`
	Checked bool   `json:"checked"`
}

// FromControl classifies a raw control event into a typed action:
//   - checkbox controls become CheckboxAction (or SettingAction for the
//     profile settings toggles)
//   - hourlyRate, portfolioFee and assetsUnderManagement become NumericAction
//   - minimumInvestment becomes NumericAction with a nil value when cleared
//   - everything else is a TextAction carrying the raw string
//
// Malformed numbers coerce to 0 rather than failing.
func FromControl(ev ControlEvent) Action {
	if ev.Type == "checkbox" {
		if isSettingField(ev.Name) {
			return SettingAction{Field: ev.Name, Enabled: ev.Checked}
		}
		return CheckboxAction{Field: ev.Name, Checked: ev.Checked}
	}

	switch ev.Name {
	case FieldMinimumInvestment:
		if strings.TrimSpace(ev.Value) == "" {
			return NumericAction{Field: ev.Name}
		}
		v := coerceNumber(ev.Value)
		return NumericAction{Field: ev.Name, Value: &v}
	case FieldHourlyRate, FieldPortfolioFee, FieldAssetsUnderManagement:
		v := coerceNumber(ev.Value)
		return NumericAction{Field: ev.Name, Value: &v}
	}

	return TextAction{Field: ev.Name, Value: ev.Value}
}

func coerceNumber(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}
