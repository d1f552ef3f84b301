package main

// boolOrDefault dereferences an optional config flag
func boolOrDefault(value *bool, fallback bool) bool {
	if value == nil {
		return fallback
	}
	return *value
}
