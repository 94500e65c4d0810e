package application

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// OriginResolver resolve o header Origin contra uma allow-list imutável
// construída na partida do processo.
//
// Cada entrada é uma origem exata ou contém exatamente um segmento
// curinga (*) que casa um subdomínio (um ou mais caracteres que não
// sejam ponto). Sem casamento, devolve a primeira entrada configurada
// como fallback — nunca um curinga aberto, para não liberar origem
// arbitrária por acidente em combinação com requisições credenciadas.
type OriginResolver struct {
	exact     map[string]struct{}
	wildcards []*regexp.Regexp
	fallback  string
}

func NewOriginResolver(allowList []string) (*OriginResolver, error) {
	if len(allowList) == 0 {
		return nil, errors.New("cors: allow-list must not be empty")
	}

	r := &OriginResolver{
		exact:    make(map[string]struct{}, len(allowList)),
		fallback: allowList[0],
	}
	for _, entry := range allowList {
		if !strings.Contains(entry, "*") {
			r.exact[entry] = struct{}{}
			continue
		}
		if strings.Count(entry, "*") != 1 {
			return nil, fmt.Errorf("cors: entry %q must contain exactly one wildcard", entry)
		}
		expr := "^" + strings.ReplaceAll(regexp.QuoteMeta(entry), `\*`, `[^.]+`) + "$"
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("cors: entry %q: %w", entry, err)
		}
		r.wildcards = append(r.wildcards, re)
	}
	return r, nil
}

// Resolve devolve sempre uma única origem para ecoar no header CORS:
// casamento exato primeiro, depois curingas na ordem configurada,
// depois o fallback.
func (r *OriginResolver) Resolve(origin string) string {
	if origin != "" {
		if _, ok := r.exact[origin]; ok {
			return origin
		}
		for _, re := range r.wildcards {
			if re.MatchString(origin) {
				return origin
			}
		}
	}
	return r.fallback
}
