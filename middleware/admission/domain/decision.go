package domain

// Reason enumera os motivos terminais de negação. Não existe estado de
// sucesso parcial: toda requisição termina admitida ou com exatamente
// um destes motivos.
type Reason string

const (
	ReasonNone             Reason = ""
	ReasonRateLimited      Reason = "rate_limited"
	ReasonBotBlocked       Reason = "bot_blocked"
	ReasonValidationFailed Reason = "validation_failed"
)

// Decision é a decisão de admissão de uma requisição. Efêmera: é
// produzida por requisição e nunca persistida.
type Decision struct {
	Allowed bool
	Reason  Reason

	Rate           RateDecision
	Classification Classification
	Validation     ValidationResult
}
