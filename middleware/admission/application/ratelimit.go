package application

import "security-gateway/middleware/admission/domain"

// RateService concentra a regra de aplicação do rate limit.
//
// Ele não sabe nada sobre HTTP (headers/status), apenas consulta o
// contador de janela. Sem store configurado, tudo passa.
type RateService struct {
	Store domain.WindowStore
}

func (s RateService) Check(key domain.Key) domain.RateDecision {
	if s.Store == nil {
		return domain.RateDecision{Allowed: true}
	}
	return s.Store.Take(key)
}
