package domain

// CoalesceStr returns the first non-empty string from vals.
func CoalesceStr(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// CoalesceTaskType returns the first non-empty task type, or TaskCall.
func CoalesceTaskType(vals ...TaskType) TaskType {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return TaskCall
}
