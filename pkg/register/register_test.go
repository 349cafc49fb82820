package register_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/knova-ai/knova/pkg/register"
)

type testKey struct{}

func Test_RegisterFunc(t *testing.T) {
	var got []int
	register.RegisterFunc[*[]int](testKey{}, func(dst *[]int) {
		*dst = append(*dst, 1)
	})
	register.RegisterFunc[*[]int](testKey{}, func(dst *[]int) {
		*dst = append(*dst, 2)
	})

	handlers := register.ResolveFuncHandlers[*[]int](testKey{})
	assert.Len(t, handlers, 2)
	for _, h := range handlers {
		h(&got)
	}
	assert.Equal(t, []int{1, 2}, got)
}

func Test_ResolveFuncHandlersSkipsOtherTypes(t *testing.T) {
	type otherKey struct{}
	register.RegisterFunc[string](otherKey{}, func(string) {})

	assert.Empty(t, register.ResolveFuncHandlers[int](otherKey{}))
	assert.Len(t, register.ResolveFuncHandlers[string](otherKey{}), 1)
}
