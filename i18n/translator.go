package i18n

// Translator retrieves localized messages for Issue codes.
// data provides optional metadata to embed in the message (for example,
// "name" or "op").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(code string, data map[string]string) string {
	switch t.lang {
	case "ja":
		switch code {
		case "required":
			return "必須フィールドが不足しています"
		case "invalid_type":
			return "型が不正です"
		case "parse_error":
			return "解析エラー"
		case "empty_name":
			return "名前が空です"
		case "duplicate_name":
			return "名前が重複しています"
		case "malformed_schema":
			return "データスキーマが不正です"
		case "invalid_min_max":
			return "最小値が最大値を超えています"
		case "nan_min_max":
			return "境界値が NaN です"
		case "invalid_multiple_of":
			return "multipleOf は正の数でなければなりません"
		case "illegal_form_op":
			return "このフォームでは許可されていない操作です"
		case "unresolved_security":
			return "セキュリティスキームが定義されていません"
		case "empty_security":
			return "デフォルトのセキュリティが空です"
		case "invalid_scheme":
			return "未知のセキュリティスキームです"
		case "missing_scheme_field":
			return "セキュリティスキームのフィールドが不足しています"
		case "invalid_uri":
			return "URI が不正です"
		case "invalid_language_tag":
			return "言語タグが不正です"
		}
	default: // "en"
		switch code {
		case "required":
			return "required field missing"
		case "invalid_type":
			return "invalid type"
		case "parse_error":
			return "parse error"
		case "empty_name":
			return "name is empty"
		case "duplicate_name":
			return "name registered more than once"
		case "malformed_schema":
			return "malformed data schema"
		case "invalid_min_max":
			return "minimum exceeds maximum"
		case "nan_min_max":
			return "NaN is not a valid bound"
		case "invalid_multiple_of":
			return "multipleOf must be positive"
		case "illegal_form_op":
			return "operation not allowed for this form"
		case "unresolved_security":
			return "security scheme is not defined"
		case "empty_security":
			return "default security is empty"
		case "invalid_scheme":
			return "unknown security scheme"
		case "missing_scheme_field":
			return "security scheme field missing"
		case "invalid_uri":
			return "invalid URI"
		case "invalid_language_tag":
			return "invalid language tag"
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
