package weather

// ConditionOther labels every code outside the known table, including a missing one.
const ConditionOther = "Other"

var conditionText = map[int]string{
	0: "Clear sky",
	1: "Mainly clear",
	2: "Partly cloudy",
	3: "Overcast",
}

// Classify maps a WMO weather code to display text.
func Classify(code *int) string {
	if code == nil {
		return ConditionOther
	}
	if text, ok := conditionText[*code]; ok {
		return text
	}
	return ConditionOther
}
