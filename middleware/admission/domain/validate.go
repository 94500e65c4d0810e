package domain

// ViolationLocation indica onde a assinatura de injeção casou.
type ViolationLocation string

const (
	LocationURL    ViolationLocation = "url"
	LocationHeader ViolationLocation = "header"
)

// ValidationResult é o resultado da varredura de assinaturas.
type ValidationResult struct {
	Valid bool

	// Rule é o nome da assinatura que casou.
	Rule     string
	Location ViolationLocation

	// Header é o nome do header ofensor quando Location=header.
	Header string
}
