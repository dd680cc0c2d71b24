package intake

// Messages holds every caller-facing string the pipeline can produce.
// The clinic this service was built for runs in Dari, so the defaults
// are Dari; deployments for another locale swap the catalog wholesale
// rather than editing strings scattered through the code.
type Messages struct {
	MissingFields    string // prefix, followed by the missing field names
	AgeRange         string
	PhoneFormat      string
	DateInvalid      string
	DateInPast       string
	EmailFormat      string
	InvalidBody      string
	MethodNotAllowed string
	ConfigError      string
	SinkError        string
	Unexpected       string
	Success          string
	SuccessDetails   string

	// Sentinels written to the sink in place of absent optional fields.
	NotProvided string
	NotSelected string
	PrivacyYes  string
}

// DefaultMessages returns the Dari catalog used by the original deployment.
func DefaultMessages() Messages {
	return Messages{
		MissingFields:    "لطفاً فیلدهای ضروری را پر کنید: ",
		AgeRange:         "سن باید بین ۱ و ۱۲۰ سال باشد.",
		PhoneFormat:      "شماره تماس باید با ۰۷ شروع شود و ۱۰ رقم باشد.",
		DateInvalid:      "تاریخ ملاقات معتبر نیست.",
		DateInPast:       "تاریخ ملاقات باید امروز یا روزهای آینده باشد.",
		EmailFormat:      "فرمت ایمیل صحیح نیست.",
		InvalidBody:      "فرمت درخواست معتبر نیست. لطفاً اطلاعات خود را بررسی کنید.",
		MethodNotAllowed: "Method not allowed. Only POST requests are accepted.",
		ConfigError:      "Server configuration error. Please contact administrator.",
		SinkError:        "خطا در ذخیره اطلاعات. لطفاً بعداً تلاش کنید.",
		Unexpected:       "خطای غیرمنتظره سرور. لطفاً بعداً تلاش کنید.",
		Success:          "درخواست شما با موفقیت ثبت شد. شماره رهگیری شما:",
		SuccessDetails:   "لطفاً شماره رهگیری خود را یادداشت کنید. جزئیات به شماره تماس شما ارسال خواهد شد.",

		NotProvided: "ندارد",
		NotSelected: "انتخاب نشده",
		PrivacyYes:  "بلی",
	}
}
