package notify

import "strings"

// TemplateKey identifies a notification message template.
type TemplateKey string

const (
	TemplatePriceDrop        TemplateKey = "price_drop"
	TemplateFlightReminder   TemplateKey = "flight_reminder"
	TemplateHotelReminder    TemplateKey = "hotel_reminder"
	TemplateBookingConfirmed TemplateKey = "booking_confirmed"
)

// DefaultLanguage is used when a user has no stored preference or the
// preferred language has no translation.
const DefaultLanguage = "en"

// templates maps language code to template key to message text.
// Placeholders use {name} syntax.
var templates = map[string]map[TemplateKey]string{
	"en": {
		TemplatePriceDrop:        "📉 Price drop alert! A {type} matching your search is now {price}. Book now before the price goes back up!",
		TemplateFlightReminder:   "✈️ Reminder: your flight to {destination} departs in {hours} hours. Have a great trip!",
		TemplateHotelReminder:    "🏨 Reminder: your check-in at {hotel} is tomorrow. We wish you a pleasant stay!",
		TemplateBookingConfirmed: "✅ Your booking is confirmed. Reference: {ref}. Thank you for booking with us!",
	},
	"am": {
		TemplatePriceDrop:        "📉 የዋጋ ቅናሽ ማሳወቂያ! ከፍለጋዎ ጋር የሚመሳሰል {type} አሁን {price} ነው። ዋጋው ከመጨመሩ በፊት አሁን ይያዙ!",
		TemplateFlightReminder:   "✈️ ማስታወሻ፦ ወደ {destination} የሚሄደው በረራዎ በ{hours} ሰዓታት ውስጥ ይነሳል። መልካም ጉዞ!",
		TemplateHotelReminder:    "🏨 ማስታወሻ፦ በ{hotel} የሚያደርጉት ቼክ-ኢን ነገ ነው። መልካም ቆይታ እንመኛለን!",
		TemplateBookingConfirmed: "✅ ቦታዎ ተረጋግጧል። መለያ ቁጥር፦ {ref}። ስለመረጡን እናመሰግናለን!",
	},
	"om": {
		TemplatePriceDrop:        "📉 Beeksisa gatii gadi bu'e! {type} barbaacha keessaniin walsimu amma {price} dha. Gatiin osoo ol hin deebi'in amma qabadhaa!",
		TemplateFlightReminder:   "✈️ Yaadachiisa: balaliin keessan gara {destination} sa'aatii {hours} keessatti ka'a. Imala gaarii!",
		TemplateHotelReminder:    "🏨 Yaadachiisa: galmeen keessan {hotel} keessatti bor dha. Turtii gaarii isiniif hawwina!",
		TemplateBookingConfirmed: "✅ Qabannoon keessan mirkanaa'eera. Lakkoofsa: {ref}. Galatoomaa!",
	},
}

// Render resolves a template for the given language and substitutes the
// parameters. Unknown languages and keys fall back to English; a key
// missing there renders as its own name so the gap is visible.
func Render(key TemplateKey, language string, params map[string]string) string {
	byKey, ok := templates[language]
	if !ok {
		byKey = templates[DefaultLanguage]
	}
	text, ok := byKey[key]
	if !ok {
		text, ok = templates[DefaultLanguage][key]
		if !ok {
			return string(key)
		}
	}

	for name, value := range params {
		text = strings.ReplaceAll(text, "{"+name+"}", value)
	}
	return text
}

// SupportedLanguages returns the language codes with translations.
func SupportedLanguages() []string {
	return []string{"en", "am", "om"}
}
