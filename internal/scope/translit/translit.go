// Package translit converts text between the Cyrillic and Latin scripts using a fixed
// letter/digraph table.
//
// The conversion is not a general inverse: several Cyrillic letters share a Latin
// spelling (Ш and Щ are both "Sh", Е, Ё and Э are all "E"), so ToCyrillic(ToLatin(s))
// only equals s for strings that avoid those letters.
package translit

import "strings"

// pairs is ordered: digraphs precede the single letters they start with, and on a
// duplicate Latin spelling the earlier Cyrillic letter wins.
var pairs = [][2]string{
	{"Я", "Ya"}, {"я", "ya"},
	{"Ю", "Yu"}, {"ю", "yu"},
	{"Ч", "Ch"}, {"ч", "ch"},
	{"Ш", "Sh"}, {"ш", "sh"},
	{"Щ", "Sh"}, {"щ", "sh"},
	{"Ж", "Zh"}, {"ж", "zh"},
	{"А", "A"}, {"а", "a"},
	{"Б", "B"}, {"б", "b"},
	{"В", "V"}, {"в", "v"},
	{"Г", "G"}, {"г", "g"},
	{"Д", "D"}, {"д", "d"},
	{"Е", "E"}, {"е", "e"},
	{"Ё", "E"}, {"ё", "e"},
	{"З", "Z"}, {"з", "z"},
	{"И", "I"}, {"и", "i"},
	{"Й", "J"}, {"й", "j"},
	{"К", "K"}, {"к", "k"},
	{"Л", "L"}, {"л", "l"},
	{"М", "M"}, {"м", "m"},
	{"Н", "N"}, {"н", "n"},
	{"О", "O"}, {"о", "o"},
	{"П", "P"}, {"п", "p"},
	{"Р", "R"}, {"р", "r"},
	{"С", "S"}, {"с", "s"},
	{"Т", "T"}, {"т", "t"},
	{"У", "U"}, {"у", "u"},
	{"Ф", "F"}, {"ф", "f"},
	{"Х", "H"}, {"х", "h"},
	{"Ц", "C"}, {"ц", "c"},
	{"Ы", "Y"}, {"ы", "y"},
	{"Ь", "`"}, {"ь", "`"},
	{"Ъ", "'"}, {"ъ", "'"},
	{"Э", "E"}, {"э", "e"},
}

// strings.Replacer compares old strings in argument order at each position, so the
// digraphs listed first win over their leading letter and the first duplicate wins.
var (
	toLatin    = newReplacer(false)
	toCyrillic = newReplacer(true)
)

func newReplacer(reverse bool) *strings.Replacer {
	oldnew := make([]string, 0, len(pairs)*2)
	for _, p := range pairs {
		if reverse {
			oldnew = append(oldnew, p[1], p[0])
		} else {
			oldnew = append(oldnew, p[0], p[1])
		}
	}
	return strings.NewReplacer(oldnew...)
}

// ToLatin replaces every Cyrillic letter with its Latin spelling
func ToLatin(s string) string {
	return toLatin.Replace(s)
}

// ToCyrillic replaces Latin letters and digraphs with Cyrillic letters
func ToCyrillic(s string) string {
	return toCyrillic.Replace(s)
}
