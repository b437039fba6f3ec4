package generation

var languageByRegion = map[string]string{
	"US":      "en-US",
	"UK":      "en-GB",
	"EU":      "en-EU",
	"APAC":    "en-APAC",
	"LATAM":   "es-MX",
	"FR":      "fr-FR",
	"DE":      "de-DE",
	"ES":      "es-ES",
	"JP":      "ja-JP",
	"CN":      "zh-CN",
	"KR":      "ko-KR",
	"IT":      "it-IT",
	"BR":      "pt-BR",
	"MX":      "es-MX",
	"CA":      "en-US",
	"AU":      "en-GB",
	"India":   "en-US",
	"Japan":   "ja-JP",
	"China":   "zh-CN",
	"Korea":   "ko-KR",
	"France":  "fr-FR",
	"Germany": "de-DE",
	"Spain":   "es-ES",
	"Italy":   "it-IT",
	"Brazil":  "pt-BR",
	"Mexico":  "es-MX",
}

// LanguageForRegion maps a region code or country name to the copy language.
// Unknown regions default to en-US.
func LanguageForRegion(region string) string {
	if code, ok := languageByRegion[region]; ok {
		return code
	}
	return "en-US"
}

type languageInstruction struct {
	name        string
	instruction string
}

var instructionsByLanguage = map[string]languageInstruction{
	"en-US":   {name: "English"},
	"en-GB":   {name: "English"},
	"en-EU":   {name: "English"},
	"en-APAC": {name: "English"},
	"es-MX":   {name: "Spanish", instruction: "IMPORTANT: Write the creative idea entirely in Spanish."},
	"es-ES":   {name: "Spanish", instruction: "IMPORTANT: Write the creative idea entirely in Spanish."},
	"fr-FR":   {name: "French", instruction: "IMPORTANT: Write the creative idea entirely in French."},
	"de-DE":   {name: "German", instruction: "IMPORTANT: Write the creative idea entirely in German."},
	"ja-JP":   {name: "Japanese", instruction: "IMPORTANT: Write the creative idea entirely in Japanese."},
	"zh-CN":   {name: "Chinese", instruction: "IMPORTANT: Write the creative idea entirely in Simplified Chinese."},
	"ko-KR":   {name: "Korean", instruction: "IMPORTANT: Write the creative idea entirely in Korean."},
	"it-IT":   {name: "Italian", instruction: "IMPORTANT: Write the creative idea entirely in Italian."},
	"pt-BR":   {name: "Portuguese", instruction: "IMPORTANT: Write the creative idea entirely in Portuguese."},
}

func instructionForLanguage(code string) languageInstruction {
	if li, ok := instructionsByLanguage[code]; ok {
		return li
	}
	return languageInstruction{name: "English"}
}
