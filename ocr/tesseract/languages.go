package tesseract

import "github.com/shazow/wifisnap/ocr"

// Languages returns the Tesseract languages loaded for hint.
func Languages(hint ocr.ScriptHint) []string {
	switch hint {
	case ocr.HintChineseSimplified:
		return []string{"chi_sim"}
	case ocr.HintChineseTraditional:
		return []string{"chi_tra"}
	case ocr.HintJapanese:
		return []string{"jpn"}
	case ocr.HintKorean:
		return []string{"kor"}
	default:
		// Latin labels from the supported locales, English first.
		return []string{"eng", "spa", "fra", "deu"}
	}
}
