package admission

import "strings"

// CSPConfig é a tabela estática de diretivas do Content-Security-Policy.
//
// Só as listas de fontes variam por implantação; as demais diretivas
// são fixas. A montagem é determinística: mesma tabela, mesma string,
// sem nenhuma variação por requisição.
type CSPConfig struct {
	ScriptSrc  []string
	StyleSrc   []string
	ImgSrc     []string
	ConnectSrc []string
}

func DefaultCSP() CSPConfig {
	return CSPConfig{
		ScriptSrc:  []string{"'self'", "'unsafe-inline'", "https://cdnjs.cloudflare.com"},
		StyleSrc:   []string{"'self'", "'unsafe-inline'", "https://fonts.googleapis.com"},
		ImgSrc:     []string{"'self'", "data:", "https:"},
		ConnectSrc: []string{"'self'"},
	}
}

// String monta o valor do header Content-Security-Policy.
func (c CSPConfig) String() string {
	var b strings.Builder

	directive := func(name string, sources ...string) {
		if len(sources) == 0 {
			return
		}
		if b.Len() > 0 {
			b.WriteString("; ")
		}
		b.WriteString(name)
		for _, src := range sources {
			b.WriteByte(' ')
			b.WriteString(src)
		}
	}

	directive("default-src", "'self'")
	directive("script-src", c.ScriptSrc...)
	directive("style-src", c.StyleSrc...)
	directive("img-src", c.ImgSrc...)
	directive("connect-src", c.ConnectSrc...)
	directive("font-src", "'self'", "https://fonts.gstatic.com", "data:")
	directive("object-src", "'none'")
	directive("media-src", "'self'")
	directive("frame-src", "'none'")
	directive("worker-src", "'self'")
	directive("manifest-src", "'self'")
	directive("base-uri", "'self'")
	directive("form-action", "'self'")

	b.WriteString("; upgrade-insecure-requests")
	return b.String()
}
