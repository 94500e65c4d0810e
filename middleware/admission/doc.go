// Package admission fornece adapters HTTP (net/http) para a admissão de
// requisições na borda: rate limit por (cliente, rota), classificação
// de bots pelo User-Agent, validação de assinaturas de injeção e o
// pacote de headers de segurança (CSP, CORS, telemetria de rate limit).
//
// Visão geral (camadas):
//
//   - domain: contratos e tipos do domínio (sem dependência de net/http)
//   - application: casos de uso (pipeline de decisão) sem net/http
//   - infra: implementações concretas (janela fixa, token bucket, stats),
//     detalhes de infraestrutura
//   - admission (este pacote): middlewares HTTP + wiring/extração de chave +
//     tradução para status/headers/corpos problem+json
//
// Fluxo no gateway:
//
//  1. Extrai a chave do cliente (IP/header/XFF) e a rota
//  2. Chama a camada application: rate limit → classificador → validador,
//     a primeira etapa que negar curto-circuita as seguintes
//  3. Se negado, responde 429/403/400 com corpo application/problem+json
//  4. Se permitido, aplica o pacote de headers e chama o próximo handler
//     (ex: reverse proxy); preflight OPTIONS é respondido aqui mesmo
//
// Variáveis de ambiente do binário gateway (cmd/gateway) controlam o
// comportamento, como RATE_LIMIT, RATE_WINDOW, THROTTLE_RPS e POLICY_FILE.
package admission
