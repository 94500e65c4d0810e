package main

import (
	"fmt"
	"net/http"
)

// Upstream "burro" de propósito: sem limite, sem validação, sem header
// de segurança nenhum. Sobe atrás do gateway para testar na mão o que
// passa e o que é barrado.
func main() {
	http.HandleFunc("/showTela", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprintf(w, "<h1>Tela do Sistema</h1><p>Requisição recebida com sucesso!</p>")
		fmt.Println("Log: Alguém acessou o endpoint /showTela")
	})
	http.HandleFunc("/api/lead", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"ok":true,"path":%q,"ua":%q}`, r.URL.Path, r.UserAgent())
		fmt.Printf("Log: /api/lead de %s (UA %q)\n", r.RemoteAddr, r.UserAgent())
	})
	fmt.Println("Servidor rodando em http://localhost:9000")
	err := http.ListenAndServe(":9000", nil)
	if err != nil {
		fmt.Printf("Erro ao subir o servidor: %s\n", err)
	}
}
