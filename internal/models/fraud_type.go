package models

type FraudType struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// FraudTypes is the fixed category list offered to reporters.
var FraudTypes = []FraudType{
	{Value: "impersonation", Label: "Impersonating police or prosecutors"},
	{Value: "loan", Label: "Online loan"},
	{Value: "shopping", Label: "Online shopping refund"},
	{Value: "partTimeJob", Label: "Part-time order brushing"},
	{Value: "investment", Label: "Fake investment"},
	{Value: "onlineDating", Label: "Romance scam / pig butchering"},
	{Value: "phishing", Label: "Phishing site or link"},
	{Value: "other", Label: "Other"},
}

func IsFraudType(value string) bool {
	for _, t := range FraudTypes {
		if t.Value == value {
			return true
		}
	}
	return false
}
