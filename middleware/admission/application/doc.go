// Package application contém os casos de uso (regras de aplicação) da
// admissão de requisições: checagem de janela, classificação por
// User-Agent, validação de assinaturas e resolução de origem CORS.
//
// Ele depende apenas do pacote domain e não conhece net/http.
// Ex.: Service.Decide(req) retorna uma Decision (allow/deny + motivo).
package application
