package normalize

import "strings"

// Clean normaliza un fragmento de clave de búsqueda: recorta, elimina todo
// espacio en blanco interno y pasa a mayúsculas. Una cadena vacía entra y
// sale vacía; la función nunca falla.
func Clean(s string) string {
	return strings.ToUpper(strings.Join(strings.Fields(s), ""))
}

// SearchKey concatena las partes ya limpiadas en el orden recibido. El orden
// importa: la misma clave se usa al escribir los maestros y al leerlos, una
// asimetría aquí produce registros sin resolver de forma silenciosa.
func SearchKey(parts ...string) string {
	var b strings.Builder
	for _, p := range parts {
		b.WriteString(Clean(p))
	}
	return b.String()
}

// ProductKey arma la clave de búsqueda de maestros de productos:
// distribuidor + código de producto del distribuidor + descripción.
func ProductKey(distributor, productDistributor, description string) string {
	return SearchKey(distributor, productDistributor, description)
}

// StoreKey arma la clave de búsqueda de maestros de almacenes:
// distribuidor + código de almacén del distribuidor.
func StoreKey(distributor, storeDistributor string) string {
	return SearchKey(distributor, storeDistributor)
}
