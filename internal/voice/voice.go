package voice

import (
	"sort"
	"strings"
)

// Default is the language code used when none is supplied or recognized.
const Default = "en"

// Mappings is the language code → synthesis voice table. Voice identifiers
// are opaque to the pipeline and passed through to the synthesis backend.
var Mappings = map[string]string{
	"en": "en-US-JennyNeural",
	"ta": "ta-IN-PallaviNeural",
	"hi": "hi-IN-SwaraNeural",
	"ml": "ml-IN-SobhanaNeural",
	"kn": "kn-IN-SapnaNeural",
	"te": "te-IN-ShrutiNeural",
	"bn": "bn-IN-TanishaaNeural",
	"mr": "mr-IN-AarohiNeural",
	"gu": "gu-IN-DhwaniNeural",
	"pa": "pa-IN-SandeepNeural",
	"ur": "ur-IN-GulNeural",
	"fr": "fr-FR-DeniseNeural",
	"de": "de-DE-KatjaNeural",
	"es": "es-ES-ElviraNeural",
	"it": "it-IT-ElsaNeural",
	"ru": "ru-RU-SvetlanaNeural",
	"ja": "ja-JP-NanamiNeural",
	"ko": "ko-KR-SunHiNeural",
	"zh": "zh-CN-XiaoxiaoNeural",
	"ar": "ar-SA-ZariyahNeural",
	"pt": "pt-BR-FranciscaNeural",
	"nl": "nl-NL-ColetteNeural",
	"el": "el-GR-AthinaNeural",
	"he": "he-IL-HilaNeural",
	"tr": "tr-TR-EmelNeural",
	"pl": "pl-PL-ZofiaNeural",
	"th": "th-TH-PremwadeeNeural",
	"vi": "vi-VN-HoaiMyNeural",
	"sv": "sv-SE-SofieNeural",
	"fi": "fi-FI-NooraNeural",
	"cs": "cs-CZ-VlastaNeural",
	"hu": "hu-HU-NoemiNeural",
}

// Languages returns the supported language codes in sorted order.
func Languages() []string {
	codes := make([]string, 0, len(Mappings))
	for code := range Mappings {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// ContainsTamil reports whether any rune of text falls inside the Tamil
// Unicode block (U+0B80..U+0BFF).
func ContainsTamil(text string) bool {
	for _, r := range text {
		if r >= 0x0B80 && r <= 0x0BFF {
			return true
		}
	}
	return false
}

// Select resolves the synthesis voice for one request. An explicit override
// always wins. Tamil script anywhere in the text selects the Tamil voice even
// when a different language was declared. Otherwise the language table
// decides, falling back to the default.
func Select(text, language, override string) string {
	if override != "" {
		return override
	}

	if ContainsTamil(text) {
		return Mappings["ta"]
	}

	code := Default
	if language != "" {
		code = strings.ToLower(language)
	}
	if v, ok := Mappings[code]; ok {
		return v
	}
	return Mappings[Default]
}
