// Package keymap remaps text typed with the wrong keyboard layout active, translating each
// character to the glyph on the same physical key of the US-QWERTY or Russian ЙЦУКЕН layout.
package keymap

import (
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// KeyCap is one physical key with its unshifted and shifted glyphs on both layouts
type KeyCap struct {
	Latin         rune
	LatinShift    rune
	Cyrillic      rune
	CyrillicShift rune
}

// Keys lists the physical keys whose glyphs differ between the two layouts
var Keys = []KeyCap{
	{'`', '~', 'ё', 'Ё'},
	{'q', 'Q', 'й', 'Й'}, {'w', 'W', 'ц', 'Ц'}, {'e', 'E', 'у', 'У'}, {'r', 'R', 'к', 'К'},
	{'t', 'T', 'е', 'Е'}, {'y', 'Y', 'н', 'Н'}, {'u', 'U', 'г', 'Г'}, {'i', 'I', 'ш', 'Ш'},
	{'o', 'O', 'щ', 'Щ'}, {'p', 'P', 'з', 'З'}, {'[', '{', 'х', 'Х'}, {']', '}', 'ъ', 'Ъ'},
	{'a', 'A', 'ф', 'Ф'}, {'s', 'S', 'ы', 'Ы'}, {'d', 'D', 'в', 'В'}, {'f', 'F', 'а', 'А'},
	{'g', 'G', 'п', 'П'}, {'h', 'H', 'р', 'Р'}, {'j', 'J', 'о', 'О'}, {'k', 'K', 'л', 'Л'},
	{'l', 'L', 'д', 'Д'}, {';', ':', 'ж', 'Ж'}, {'\'', '"', 'э', 'Э'},
	{'z', 'Z', 'я', 'Я'}, {'x', 'X', 'ч', 'Ч'}, {'c', 'C', 'с', 'С'}, {'v', 'V', 'м', 'М'},
	{'b', 'B', 'и', 'И'}, {'n', 'N', 'т', 'Т'}, {'m', 'M', 'ь', 'Ь'}, {',', '<', 'б', 'Б'},
	{'.', '>', 'ю', 'Ю'},
}

var (
	latinToCyrillic = make(map[rune]rune, len(Keys)*2)
	cyrillicToLatin = make(map[rune]rune, len(Keys)*2)
)

func init() {
	for _, k := range Keys {
		latinToCyrillic[k.Latin] = k.Cyrillic
		latinToCyrillic[k.LatinShift] = k.CyrillicShift
		cyrillicToLatin[k.Cyrillic] = k.Latin
		cyrillicToLatin[k.CyrillicShift] = k.LatinShift
	}
}

// SwapRune maps r to the glyph on the same key of the other layout.
// The Latin table is consulted first; unmapped runes are returned unchanged.
func SwapRune(r rune) rune {
	if c, ok := latinToCyrillic[r]; ok {
		return c
	}
	if l, ok := cyrillicToLatin[r]; ok {
		return l
	}
	return r
}

// Swap remaps every character of s in both directions
func Swap(s string) string {
	return apply(SwapRune, s)
}

// ToCyrillic remaps only QWERTY glyphs, as if s had been typed on ЙЦУКЕН
func ToCyrillic(s string) string {
	return apply(func(r rune) rune {
		if c, ok := latinToCyrillic[r]; ok {
			return c
		}
		return r
	}, s)
}

// ToLatin remaps only ЙЦУКЕН glyphs, as if s had been typed on QWERTY
func ToLatin(s string) string {
	return apply(func(r rune) rune {
		if l, ok := cyrillicToLatin[r]; ok {
			return l
		}
		return r
	}, s)
}

func apply(mapping func(rune) rune, s string) string {
	out, _, err := transform.String(runes.Map(mapping), s)
	if err != nil {
		return s
	}
	return out
}
