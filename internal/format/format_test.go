package format

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMoney(t *testing.T) {
	t.Parallel()

	cases := []struct {
		amount float64
		code   string
		want   string
	}{
		{800, "INR", "₹800"},
		{1299.5, "inr", "₹1,299.50"},
		{1234567, "JPY", "¥1,234,567"},
		{19.99, "USD", "$19.99"},
		{-5, "EUR", "-€5"},
		{10, "CHF", "CHF 10"},
		{10, "not-a-code", "₹10"},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, Money(tc.amount, tc.code, "en"), "%v %s", tc.amount, tc.code)
	}
}

func TestPercentAndCount(t *testing.T) {
	t.Parallel()

	require.Equal(t, "20%", Percent(20))
	require.Equal(t, "12.5%", Percent(12.5))
	require.Equal(t, "12,345", Count(12345, "en"))
}

func TestStars(t *testing.T) {
	t.Parallel()

	full, half, empty := Stars(4.6)
	require.Equal(t, []int{4, 1, 0}, []int{full, half, empty})
	full, half, empty = Stars(3.2)
	require.Equal(t, []int{3, 0, 2}, []int{full, half, empty})
	full, half, empty = Stars(9)
	require.Equal(t, []int{5, 0, 0}, []int{full, half, empty})
}
