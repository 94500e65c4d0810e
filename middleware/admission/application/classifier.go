package application

import (
	"strings"

	"security-gateway/middleware/admission/domain"
)

// Signature é um par (padrão, veredito) avaliado em ordem, de cima para
// baixo, primeira-casada-vence.
//
// A ordem é parte do contrato: os padrões de bloqueio são largos o
// suficiente para colidir com crawlers legítimos, então as entradas de
// allow vêm antes das de deny na lista padrão.
type Signature struct {
	Pattern string
	Verdict domain.Verdict
}

// minUserAgentLen: User-Agent menor que isso é tratado como cliente
// suspeito, não como bot.
const minUserAgentLen = 3

// DefaultSignatures devolve a lista padrão: crawlers de busca, fetchers
// de preview social, ferramentas HTTP e de monitoração (allow),
// seguidos das assinaturas de intenção maliciosa (deny).
func DefaultSignatures() []Signature {
	allow := []string{
		"googlebot", "bingbot", "duckduckbot", "slurp", "baiduspider",
		"yandexbot", "applebot",
		"facebookexternalhit", "twitterbot", "linkedinbot",
		"whatsapp", "telegrambot", "discordbot", "slackbot",
		"curl", "wget", "postman", "insomnia", "httpie",
		"lighthouse", "pingdom", "uptimerobot", "gtmetrix",
	}
	deny := []string{
		"sqlmap", "nikto", "masscan", "nmap", "acunetix",
		"dirbuster", "gobuster", "wpscan", "hydra", "havij",
		"scrapy", "harvest", "scanner", "fuzz",
	}

	sigs := make([]Signature, 0, len(allow)+len(deny))
	for _, p := range allow {
		sigs = append(sigs, Signature{Pattern: p, Verdict: domain.VerdictAllowedBot})
	}
	for _, p := range deny {
		sigs = append(sigs, Signature{Pattern: p, Verdict: domain.VerdictBlockedBot})
	}
	return sigs
}

// Classifier rotula requisições pelo User-Agent.
//
// A lista de assinaturas é imutável após a construção; Classify é pura
// e idempotente.
type Classifier struct {
	sigs []Signature
}

// NewClassifier cria um classificador com a lista dada (nil usa a
// lista padrão). Os padrões são comparados em minúsculas.
func NewClassifier(sigs []Signature) *Classifier {
	if sigs == nil {
		sigs = DefaultSignatures()
	}
	norm := make([]Signature, len(sigs))
	for i, sig := range sigs {
		norm[i] = Signature{
			Pattern: strings.ToLower(sig.Pattern),
			Verdict: sig.Verdict,
		}
	}
	return &Classifier{sigs: norm}
}

// Classify avalia o User-Agent contra a lista ordenada. Sem casamento,
// strings vazias ou quase vazias são suspeitas; o resto é humano.
func (c *Classifier) Classify(userAgent string) domain.Classification {
	ua := strings.ToLower(userAgent)

	for _, sig := range c.sigs {
		if strings.Contains(ua, sig.Pattern) {
			return domain.Classification{
				Blocked: sig.Verdict == domain.VerdictBlockedBot,
				Verdict: sig.Verdict,
				Pattern: sig.Pattern,
			}
		}
	}

	if len(userAgent) < minUserAgentLen {
		return domain.Classification{Blocked: true, Verdict: domain.VerdictSuspicious}
	}

	return domain.Classification{Verdict: domain.VerdictHuman}
}
