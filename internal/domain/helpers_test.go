package domain

import "github.com/m04kA/SMC-TurneroService/pkg/types"

func ptrTime(s string) *types.TimeString {
	ts := types.TimeString(s)
	return &ts
}
