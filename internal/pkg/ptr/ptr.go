package ptr

func To[T any](v T) *T {
	return &v
}

// ValueOr returns *p when p is set, otherwise fallback.
func ValueOr[T any](p *T, fallback T) T {
	if p != nil {
		return *p
	}
	return fallback
}
