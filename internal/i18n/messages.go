// Package i18n holds the user-facing copy for the booking API in the three
// site languages. French is the default, matching the site's primary locale.
package i18n

const (
	LangFR = "fr"
	LangEN = "en"
	LangAR = "ar"
)

// Message keys
const (
	MsgVerificationFailed = "verification_failed"
	MsgEmailRate          = "email_rate"
	MsgIPRate             = "ip_rate"
	MsgDuplicate          = "duplicate"
	MsgGlobalRate         = "global_rate"
	MsgSubmitFailed       = "submit_failed"
	MsgInvalidRequest     = "invalid_request"
)

var messages = map[string]map[string]string{
	MsgVerificationFailed: {
		LangFR: "Vérification de sécurité échouée. Veuillez réessayer.",
		LangEN: "Security verification failed. Please try again.",
		LangAR: "فشل التحقق الأمني. يرجى المحاولة مرة أخرى.",
	},
	MsgEmailRate: {
		LangFR: "Trop de tentatives depuis cette adresse email. Veuillez réessayer dans 1 heure.",
		LangEN: "Too many attempts from this email address. Please try again in 1 hour.",
		LangAR: "محاولات كثيرة جداً من هذا البريد الإلكتروني. يرجى المحاولة بعد ساعة.",
	},
	MsgIPRate: {
		LangFR: "Trop de tentatives depuis cette adresse IP. Veuillez réessayer dans 1 heure.",
		LangEN: "Too many attempts from this IP address. Please try again in 1 hour.",
		LangAR: "محاولات كثيرة جداً من عنوان IP هذا. يرجى المحاولة بعد ساعة.",
	},
	MsgDuplicate: {
		LangFR: "Vous avez déjà une réservation en cours. Veuillez patienter 7 jours avant de réserver à nouveau.",
		LangEN: "You already have an active booking. Please wait 7 days before booking again.",
		LangAR: "لديك حجز قائم بالفعل. يرجى الانتظار 7 أيام قبل الحجز مرة أخرى.",
	},
	MsgGlobalRate: {
		LangFR: "Système temporairement surchargé. Veuillez réessayer dans quelques minutes.",
		LangEN: "System temporarily overloaded. Please try again in a few minutes.",
		LangAR: "النظام مثقل مؤقتاً. يرجى المحاولة بعد بضع دقائق.",
	},
	MsgSubmitFailed: {
		LangFR: "Une erreur est survenue lors de la réservation.",
		LangEN: "An error occurred while submitting your booking.",
		LangAR: "حدث خطأ أثناء إرسال الحجز.",
	},
	MsgInvalidRequest: {
		LangFR: "Requête invalide.",
		LangEN: "Invalid request.",
		LangAR: "طلب غير صالح.",
	},
}

// Normalize maps an arbitrary language value onto a supported language,
// defaulting to French.
func Normalize(lang string) string {
	switch lang {
	case LangFR, LangEN, LangAR:
		return lang
	}
	return LangFR
}

// T returns the localized message for key, falling back to French when the
// key has no translation for lang.
func T(lang, key string) string {
	translations, ok := messages[key]
	if !ok {
		return ""
	}
	if msg, ok := translations[Normalize(lang)]; ok {
		return msg
	}
	return translations[LangFR]
}
