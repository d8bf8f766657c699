package schema

import (
	"strings"
	"sync"

	"github.com/jinzhu/inflection"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	smap sync.Map
	// https://github.com/golang/lint/blob/master/lint.go#L770
	commonInitialisms         = []string{"API", "CSS", "HTML", "HTTP", "ID", "IP", "JSON", "URL", "UUID", "XML"}
	commonInitialismsReplacer *strings.Replacer
)

func init() {
	var commonInitialismsForReplacer []string
	for _, initialism := range commonInitialisms {
		commonInitialismsForReplacer = append(commonInitialismsForReplacer, initialism, titleCase(strings.ToLower(initialism)))
	}
	commonInitialismsReplacer = strings.NewReplacer(commonInitialismsForReplacer...)
}

// Humanize turns a column or table name into title-cased words, firstName -> First Name
func Humanize(name string) string {
	words := strings.FieldsFunc(snakeCase(name), func(r rune) bool { return r == '_' })
	for idx, word := range words {
		upper := strings.ToUpper(word)
		if contains(commonInitialisms, upper) {
			words[idx] = upper
		} else {
			words[idx] = titleCase(word)
		}
	}
	return strings.Join(words, " ")
}

// Singular record noun of a table, discoveries -> Discovery
func Singular(table string) string {
	return Humanize(inflection.Singular(snakeCase(table)))
}

// Plural list title of a table, discovery -> Discoveries
func Plural(table string) string {
	return Humanize(inflection.Plural(snakeCase(table)))
}

// casers keep state, so each call gets its own
func titleCase(s string) string {
	return cases.Title(language.English).String(s)
}

func snakeCase(name string) string {
	if name == "" {
		return ""
	} else if v, ok := smap.Load(name); ok {
		return v.(string)
	}

	var (
		value                          = commonInitialismsReplacer.Replace(name)
		buf                            strings.Builder
		lastCase, nextCase, nextNumber bool // upper case == true
		curCase                        = value[0] <= 'Z' && value[0] >= 'A'
	)

	for i, v := range value[:len(value)-1] {
		nextCase = value[i+1] <= 'Z' && value[i+1] >= 'A'
		nextNumber = value[i+1] >= '0' && value[i+1] <= '9'

		if curCase {
			if lastCase && (nextCase || nextNumber) {
				buf.WriteRune(v + 32)
			} else {
				if i > 0 && value[i-1] != '_' && value[i+1] != '_' {
					buf.WriteByte('_')
				}
				buf.WriteRune(v + 32)
			}
		} else {
			buf.WriteRune(v)
		}

		lastCase = curCase
		curCase = nextCase
	}

	if curCase {
		if !lastCase && len(value) > 1 {
			buf.WriteByte('_')
		}
		buf.WriteByte(value[len(value)-1] + 32)
	} else {
		buf.WriteByte(value[len(value)-1])
	}

	smap.Store(name, buf.String())
	return buf.String()
}

func contains(elems []string, elem string) bool {
	for _, e := range elems {
		if e == elem {
			return true
		}
	}
	return false
}
