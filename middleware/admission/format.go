// utilitário pequeno para formatação rápida/consistente de valores numéricos em headers.
//    Evita puxar fmt (que é mais “pesado” e genérico) só para formatação simples
//    Padroniza segundos e timestamps unix nos headers de telemetria

package admission

import (
	"strconv"
	"time"
)

func formatInt(v int) string { return strconv.Itoa(v) }

func formatSeconds(d time.Duration) string {
	return strconv.Itoa(int(d / time.Second))
}

func formatUnix(t time.Time) string {
	return strconv.FormatInt(t.Unix(), 10)
}
