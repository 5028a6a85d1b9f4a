package reconcile

import "unicode"

// IsKanji reports whether r is a unified CJK ideograph.
func IsKanji(r rune) bool {
	return unicode.Is(unicode.Unified_Ideograph, r)
}

// IsKatakana reports whether r belongs to the Katakana script.
func IsKatakana(r rune) bool {
	return unicode.Is(unicode.Katakana, r)
}

// Kanji returns the kanji of s in order, one string per character.
func Kanji(s string) []string {
	var out []string
	for _, r := range s {
		if IsKanji(r) {
			out = append(out, string(r))
		}
	}
	return out
}

// ContainsKatakana reports whether s has any katakana character.
func ContainsKatakana(s string) bool {
	for _, r := range s {
		if IsKatakana(r) {
			return true
		}
	}
	return false
}

// ToHiragana converts Katakana to Hiragana.
func ToHiragana(s string) string {
	runes := []rune(s)
	for i, r := range runes {
		if r >= 0x30A1 && r <= 0x30F6 {
			runes[i] = r - 0x60
		}
	}
	return string(runes)
}
