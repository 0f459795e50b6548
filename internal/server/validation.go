package server

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"spot-the-bot/internal/game"
)

const maxNicknameLength = 20

var validatorOnce sync.Once

func registerValidators() {
	validatorOnce.Do(func() {
		engine, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = engine.RegisterValidation("nickname", func(fl validator.FieldLevel) bool {
			_, err := validateNickname(fl.Field().String())
			return err == nil
		})
		_ = engine.RegisterValidation("roomcode", func(fl validator.FieldLevel) bool {
			return validRoomCode(fl.Field().String())
		})
		_ = engine.RegisterValidation("roundseconds", func(fl validator.FieldLevel) bool {
			return slices.Contains(game.AllowedRoundDurations, int(fl.Field().Int()))
		})
	})
}

func validateNickname(name string) (string, error) {
	trimmed := strings.Join(strings.Fields(name), " ")
	if trimmed == "" {
		return "", errors.New("nickname is required")
	}
	if utf8.RuneCountInString(trimmed) > maxNicknameLength {
		return "", fmt.Errorf("nickname must be %d characters or fewer", maxNicknameLength)
	}
	for _, r := range trimmed {
		if !unicode.IsPrint(r) {
			return "", errors.New("nickname contains unsupported characters")
		}
	}
	return trimmed, nil
}

func validRoomCode(code string) bool {
	code = game.NormalizeCode(code)
	return len(code) == roomCodeLength && game.IsRoomCode(code)
}
