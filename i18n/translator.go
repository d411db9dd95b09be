package i18n

import "fmt"

// Translator retrieves localized messages for Issue codes. data provides
// optional metadata to embed in the message (for example, "key" or
// "expected"/"found").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(code string, data map[string]string) string {
	switch t.lang {
	case "ja":
		switch code {
		case "missing_required_key":
			if k, ok := data["key"]; ok {
				return fmt.Sprintf("必須キー %q がありません", k)
			}
			return "必須キーがありません"
		case "invalid_type":
			if e, ok := data["expected"]; ok {
				if f, ok := data["found"]; ok {
					return fmt.Sprintf("%s であるべきです (実際は %s)", e, f)
				}
				return fmt.Sprintf("%s であるべきです", e)
			}
			return "型が不正です"
		case "empty_array":
			return "配列にデータがありません"
		case "wildcard_conflict":
			return "同一階層に複数のワイルドカードキーがあります"
		case "depth_exceeded":
			return "最大深度を超えました"
		case "parse_error":
			return "解析エラー"
		case "duplicate_key":
			if k, ok := data["key"]; ok {
				return fmt.Sprintf("キー %q が重複しています", k)
			}
			return "キーが重複しています"
		case "truncated":
			return "打ち切られました"
		}
	default: // "en"
		switch code {
		case "missing_required_key":
			if k, ok := data["key"]; ok {
				return fmt.Sprintf("required key %q is missing", k)
			}
			return "required key missing"
		case "invalid_type":
			if e, ok := data["expected"]; ok {
				if f, ok := data["found"]; ok {
					return fmt.Sprintf("should be %s (found %s)", e, f)
				}
				return fmt.Sprintf("should be %s", e)
			}
			return "invalid type"
		case "empty_array":
			return "expected data in array; found nothing"
		case "wildcard_conflict":
			return "multiple wildcard keys in one mapping"
		case "depth_exceeded":
			return "max depth exceeded"
		case "parse_error":
			return "parse error"
		case "duplicate_key":
			if k, ok := data["key"]; ok {
				return fmt.Sprintf("key %q duplicated", k)
			}
			return "duplicate key"
		case "truncated":
			return "truncated"
		}
	}
	return code
}

var currentTranslator Translator = dictTranslator{lang: "en"}

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	currentTranslator = dictTranslator{lang: lang}
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		currentTranslator = dictTranslator{lang: "en"}
		return
	}
	currentTranslator = tr
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string { return currentTranslator.Message(code, data) }
