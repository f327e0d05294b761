package telephony

import (
	"encoding/xml"
	"fmt"
	"strings"
)

// The automated call always speaks the same fixed structure: a greeting, the
// message, a pause, and thanks.
const (
	voiceGreeting = "Namaste from Ayursutra Center."
	voiceThanks   = "Thank you."
	voiceDefault  = "Please follow your therapy instructions carefully. Have a healthy day."

	twimlVoice    = "alice"
	twimlLanguage = "en-IN"
)

// RenderVoiceScript produces the TwiML document spoken during an automated
// call. An empty message falls back to a generic instruction line.
func RenderVoiceScript(message string) string {
	if strings.TrimSpace(message) == "" {
		message = voiceDefault
	}

	var b strings.Builder
	b.WriteString(xml.Header)
	b.WriteString("<Response>\n")
	writeSay(&b, voiceGreeting)
	b.WriteString("    <Pause length=\"1\"/>\n")
	writeSay(&b, message)
	b.WriteString("    <Pause length=\"1\"/>\n")
	writeSay(&b, voiceThanks)
	b.WriteString("</Response>\n")
	return b.String()
}

func writeSay(b *strings.Builder, text string) {
	var escaped strings.Builder
	_ = xml.EscapeText(&escaped, []byte(text))
	fmt.Fprintf(b, "    <Say voice=%q language=%q>%s</Say>\n", twimlVoice, twimlLanguage, escaped.String())
}
