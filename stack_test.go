package properties_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stratoctl/properties"
)

func TestInvocationStack(t *testing.T) {
	t.Run("Nested Frames", func(t *testing.T) {
		reg, _ := newBareRegistry(t)
		sec := reg.AddSection("test")
		prop := sec.Add("value", properties.WithDefault("base"))

		get := func() string {
			v, ok, err := prop.Get()
			require.NoError(t, err)
			require.True(t, ok)
			return v
		}

		assert.Equal(t, 0, reg.InvocationDepth())
		assert.Equal(t, "base", get())

		err := reg.WithInvocation(func() error {
			assert.Equal(t, 1, reg.InvocationDepth())
			require.NoError(t, reg.SetInvocationValue(prop, "outer", ""))
			assert.Equal(t, "outer", get())

			return reg.WithInvocation(func() error {
				assert.Equal(t, 2, reg.InvocationDepth())
				// Inner frame is empty, outer override still applies.
				assert.Equal(t, "outer", get())

				require.NoError(t, reg.SetInvocationValue(prop, "inner", ""))
				assert.Equal(t, "inner", get())
				return nil
			})
		})
		require.NoError(t, err)

		// Both frames gone, back to the default.
		assert.Equal(t, 0, reg.InvocationDepth())
		assert.Equal(t, "base", get())
	})

	t.Run("Frame Pops On Error", func(t *testing.T) {
		reg, _ := newBareRegistry(t)
		sec := reg.AddSection("test")
		prop := sec.Add("value")

		boom := errors.New("boom")
		err := reg.WithInvocation(func() error {
			require.NoError(t, reg.SetInvocationValue(prop, "transient", ""))
			return boom
		})
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, 0, reg.InvocationDepth())

		_, ok, err := prop.Get()
		require.NoError(t, err)
		assert.False(t, ok, "override must not leak out of the frame")
	})

	t.Run("Frame Pops On Panic", func(t *testing.T) {
		reg, _ := newBareRegistry(t)

		func() {
			defer func() {
				require.NotNil(t, recover())
			}()
			_ = reg.WithInvocation(func() error {
				panic("mid-invocation failure")
			})
		}()

		assert.Equal(t, 0, reg.InvocationDepth())
	})

	t.Run("Unbalanced Pop Panics", func(t *testing.T) {
		reg, _ := newBareRegistry(t)
		assert.Panics(t, func() { reg.PopInvocation() })
	})

	t.Run("Value Canonicalized On Push", func(t *testing.T) {
		reg, _ := newBareRegistry(t)
		sec := reg.AddSection("test")
		flag := sec.AddBool("flag")
		count := sec.AddInt("count")

		err := reg.WithInvocation(func() error {
			require.NoError(t, reg.SetInvocationValue(flag, true, ""))
			require.NoError(t, reg.SetInvocationValue(count, 42, ""))

			v, err := flag.RequireBool()
			require.NoError(t, err)
			assert.True(t, v)

			n, err := count.RequireInt()
			require.NoError(t, err)
			assert.Equal(t, 42, n)
			return nil
		})
		require.NoError(t, err)

		err = reg.WithInvocation(func() error {
			return reg.SetInvocationValue(flag, struct{}{}, "")
		})
		assert.Error(t, err, "unconvertible values are rejected at push time")
	})

	t.Run("Flag Binding Without Value", func(t *testing.T) {
		reg, _ := newBareRegistry(t)
		sec := reg.AddSection("test")
		prop := sec.Add("value")

		err := reg.WithInvocation(func() error {
			// Record that --value exists on this command without giving
			// the property a value.
			require.NoError(t, reg.SetInvocationValue(prop, nil, "--value"))

			_, ok, err := prop.Get()
			require.NoError(t, err)
			assert.False(t, ok, "flag binding alone provides no value")

			_, err = prop.Require()
			var reqErr *properties.RequiredPropertyError
			require.ErrorAs(t, err, &reqErr)
			assert.Equal(t, "--value", reqErr.Flag)
			assert.Contains(t, err.Error(), "pass the [--value] flag")
			return nil
		})
		require.NoError(t, err)

		// Outside the frame the flag hint disappears.
		_, err = prop.Require()
		var reqErr *properties.RequiredPropertyError
		require.ErrorAs(t, err, &reqErr)
		assert.Empty(t, reqErr.Flag)
	})

	t.Run("Process Level Frame", func(t *testing.T) {
		reg, _ := newBareRegistry(t)
		sec := reg.AddSection("test")
		prop := sec.Add("value")

		// Without a pushed frame, overrides land in the process-level
		// frame and outlive individual invocations.
		require.NoError(t, reg.SetInvocationValue(prop, "process-wide", ""))

		err := reg.WithInvocation(func() error {
			v, ok, err := prop.Get()
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, "process-wide", v)
			return nil
		})
		require.NoError(t, err)

		v, ok, err := prop.Get()
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "process-wide", v)
	})
}
