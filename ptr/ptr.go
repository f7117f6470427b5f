package ptr

func Of[T any](v T) *T {
	return &v
}

func Bool(b bool) *bool {
	return &b
}

func String(s string) *string {
	return &s
}
