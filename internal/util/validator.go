package util

import (
	"errors"
	"strings"
)

// Campo es un par nombre/valor de entrada de texto.
type Campo struct {
	Nombre string
	Valor  string
}

// Obligatorios devuelve un error que nombra todos los campos vacíos, en el
// orden recibido. Los espacios no cuentan como valor.
func Obligatorios(campos ...Campo) error {
	var faltan []string
	for _, c := range campos {
		if strings.TrimSpace(c.Valor) == "" {
			faltan = append(faltan, c.Nombre)
		}
	}
	if len(faltan) == 0 {
		return nil
	}
	return errors.New("campos obligatorios: " + strings.Join(faltan, ", "))
}
