package domain

// Verdict rotula o cliente a partir do User-Agent.
type Verdict string

const (
	VerdictAllowedBot Verdict = "allowed-bot"
	VerdictBlockedBot Verdict = "blocked-bot"
	VerdictSuspicious Verdict = "suspicious-client"
	VerdictHuman      Verdict = "human"
)

// Classification é o resultado da classificação do User-Agent.
//
// Pattern carrega o padrão que casou; fica vazio para os vereditos
// human e suspicious-client (neste último não houve casamento de lista,
// apenas o comprimento denunciou o cliente).
type Classification struct {
	Blocked bool
	Verdict Verdict
	Pattern string
}
