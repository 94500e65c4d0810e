package domain

// Camada de domínio do rate limit por janela fixa.
//
// Regras e contratos (interfaces/tipos) sem dependência de net/http.

import "time"

// Key identifica o bucket de contagem do rate limit.
//
// A chave é composta (cliente + rota) de propósito: esgotar o orçamento
// de uma rota não afeta as demais rotas do mesmo cliente. Struct em vez
// de concatenação de strings, para não haver colisão de delimitador
// quando a identidade do cliente contém ":".
type Key struct {
	Client string
	Route  string
}

// RateDecision é o resultado de uma passagem pelo contador de janela.
type RateDecision struct {
	Allowed   bool
	Limit     int
	Remaining int

	// RetryAfter é o tempo até o fim da janela corrente, arredondado
	// para cima em segundos inteiros. Só é preenchido quando
	// Allowed=false.
	RetryAfter time.Duration

	// Reset é o instante em que a janela corrente termina.
	Reset time.Time
}

// WindowStore registra uma requisição para a chave e devolve a decisão.
//
// Take tem efeito colateral (incrementa o contador quando permite);
// não existe consulta sem consumo.
type WindowStore interface {
	Take(Key) RateDecision
}

// Clock abstrai time.Now para permitir testes determinísticos e evitar
// estado implícito de relógio dentro das implementações.
type Clock interface {
	Now() time.Time
}
