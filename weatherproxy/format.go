// utilitário pequeno para formatação rápida/consistente de valores numéricos
// em headers. Evita puxar fmt (mais pesado e genérico) só para isso.

package weatherproxy

import "strconv"

func formatInt(v int) string { return strconv.Itoa(v) }
