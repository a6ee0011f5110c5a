package device

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"
)

type DeviceSuite struct {
	suite.Suite
}

func TestDeviceSuite(t *testing.T) {
	suite.Run(t, new(DeviceSuite))
}

func (s *DeviceSuite) TestDescribe() {
	s.Run("empty user agent returns unknown device", func() {
		s.Equal("Unknown Device", Describe(""))
	})

	s.Run("whitespace user agent returns unknown device", func() {
		s.Equal("Unknown Device", Describe("   "))
	})

	s.Run("chrome on mac includes browser and OS", func() {
		result := Describe("Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
		s.Contains(result, "Chrome")
		s.Contains(result, "on")
		s.NotContains(result, "  ")
	})

	s.Run("firefox on linux includes browser and OS", func() {
		result := Describe("Mozilla/5.0 (X11; Linux x86_64; rv:121.0) Gecko/20100101 Firefox/121.0")
		s.Contains(result, "Firefox")
		s.Contains(result, "on")
	})

	s.Run("unparseable agent still yields a label", func() {
		result := Describe("Unknown/1.0")
		s.NotEmpty(result)
		s.Contains(result, "on")
	})

	s.Run("result has no surrounding whitespace", func() {
		result := Describe("Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
		s.Equal(result, strings.TrimSpace(result))
	})
}
