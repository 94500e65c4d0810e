package application

import (
	"net/url"
	"regexp"

	"security-gateway/middleware/admission/domain"
)

// Rule é uma assinatura nomeada de negação. A lista é fixa, avaliada em
// ordem; a primeira que casar decide.
type Rule struct {
	Name string
	re   *regexp.Regexp
}

// NewRule compila uma assinatura extra (ex: vinda do arquivo de
// política).
func NewRule(name, expr string) (Rule, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return Rule{}, err
	}
	return Rule{Name: name, re: re}, nil
}

// DefaultRules cobre travessia de diretório, tag de script inline,
// UNION SELECT e chamadas diretas de execução/avaliação de código.
//
// É uma lista curta de propósito: o validador é um filtro grosso de
// borda, não um banco de assinaturas de IDS.
func DefaultRules() []Rule {
	mustRule := func(name, expr string) Rule {
		return Rule{Name: name, re: regexp.MustCompile(expr)}
	}
	return []Rule{
		mustRule("path-traversal", `(?i)\.\.[/\\]`),
		mustRule("script-tag", `(?i)<\s*script`),
		mustRule("sql-union", `(?i)union[\s+]+select`),
		mustRule("code-exec", `(?i)\b(?:eval|exec|system)\s*\(`),
	}
}

// InjectionHeaders são os headers verificados pelo validador, em ordem
// fixa. O transporte é responsável por entregá-los com estes nomes.
var InjectionHeaders = []string{"X-Forwarded-For", "X-Real-IP", "Host"}

// Validator varre a URL e um conjunto fixo de headers propensos a
// injeção. É uma lista de negação, não um sanitizador: nunca reescreve
// a entrada, apenas aceita ou rejeita.
type Validator struct {
	rules []Rule
}

// NewValidator cria um validador com as regras dadas (nil usa as
// regras padrão).
func NewValidator(rules []Rule) *Validator {
	if rules == nil {
		rules = DefaultRules()
	}
	return &Validator{rules: rules}
}

// Validate testa path+query contra todas as assinaturas (location=url)
// e depois o valor de cada header presente (location=header, com o nome
// do header ofensor).
func (v *Validator) Validate(path, rawQuery string, headers map[string]string) domain.ValidationResult {
	target := path
	if rawQuery != "" {
		target += "?" + rawQuery
	}

	// testa também a forma decodificada, para não deixar passar
	// assinatura escondida em percent-encoding
	candidates := []string{target}
	if unescaped, err := url.QueryUnescape(target); err == nil && unescaped != target {
		candidates = append(candidates, unescaped)
	}

	for _, rule := range v.rules {
		for _, c := range candidates {
			if rule.re.MatchString(c) {
				return domain.ValidationResult{
					Rule:     rule.Name,
					Location: domain.LocationURL,
				}
			}
		}
	}

	for _, name := range InjectionHeaders {
		val := headers[name]
		if val == "" {
			continue
		}
		for _, rule := range v.rules {
			if rule.re.MatchString(val) {
				return domain.ValidationResult{
					Rule:     rule.Name,
					Location: domain.LocationHeader,
					Header:   name,
				}
			}
		}
	}

	return domain.ValidationResult{Valid: true}
}
