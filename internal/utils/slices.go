package utils

// Chunk parte un slice en bloques de tamaño fijo; el último bloque puede ser
// más corto. size <= 0 devuelve un único bloque con todo el contenido.
func Chunk[T any](items []T, size int) [][]T {
	if len(items) == 0 {
		return nil
	}
	if size <= 0 {
		return [][]T{items}
	}
	chunks := make([][]T, 0, (len(items)+size-1)/size)
	for start := 0; start < len(items); start += size {
		end := start + size
		if end > len(items) {
			end = len(items)
		}
		chunks = append(chunks, items[start:end])
	}
	return chunks
}

// Deref devuelve el valor apuntado o el cero del tipo si el puntero es nil.
func Deref[T any](p *T) T {
	if p == nil {
		var zero T
		return zero
	}
	return *p
}

// Ptr devuelve un puntero al valor recibido.
func Ptr[T any](v T) *T {
	return &v
}
