// ABOUTME: Dice expression grammar NdS+-M and its pure evaluator.
// ABOUTME: Grounded on original_source/engine/services/dice_service.py's roll semantics.
package core

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"
	"strconv"
	"strings"
)

var diceExprRe = regexp.MustCompile(`^([0-9]*)d([0-9]+)([+-][0-9]+)?$`)

// RollDice parses and evaluates a dice expression like "2d6+3" or "d20".
// Returns the total, the per-die rolls, and a breakdown string of the form
// "<expr>: <rolls>+-<mod>=<total>".
func RollDice(expr string) (total int, rolls []int, breakdown string, err error) {
	clean := strings.ToLower(strings.TrimSpace(strings.ReplaceAll(expr, " ", "")))
	m := diceExprRe.FindStringSubmatch(clean)
	if m == nil {
		return 0, nil, "", BadInput(fmt.Sprintf("invalid dice expression: %q", expr))
	}

	count := 1
	if m[1] != "" {
		count, err = strconv.Atoi(m[1])
		if err != nil {
			return 0, nil, "", BadInput(fmt.Sprintf("invalid dice count: %q", expr))
		}
	}
	sides, err := strconv.Atoi(m[2])
	if err != nil {
		return 0, nil, "", BadInput(fmt.Sprintf("invalid dice sides: %q", expr))
	}
	if count < 1 {
		return 0, nil, "", BadInput("dice count must be at least 1")
	}
	if sides < 2 {
		return 0, nil, "", BadInput("dice sides must be at least 2")
	}

	mod := 0
	if m[3] != "" {
		mod, err = strconv.Atoi(m[3])
		if err != nil {
			return 0, nil, "", BadInput(fmt.Sprintf("invalid dice modifier: %q", expr))
		}
	}

	rolls = make([]int, count)
	for i := 0; i < count; i++ {
		n, err := cryptoRandInt(sides)
		if err != nil {
			return 0, nil, "", Internal("failed to generate random die roll", err)
		}
		rolls[i] = n + 1
		total += rolls[i]
	}
	total += mod

	var rollsStr string
	if count == 1 {
		rollsStr = strconv.Itoa(rolls[0])
	} else {
		parts := make([]string, count)
		for i, r := range rolls {
			parts[i] = strconv.Itoa(r)
		}
		rollsStr = "[" + strings.Join(parts, ", ") + "]"
	}

	modStr := ""
	if mod != 0 {
		if mod > 0 {
			modStr = fmt.Sprintf("+%d", mod)
		} else {
			modStr = strconv.Itoa(mod)
		}
	}

	breakdown = fmt.Sprintf("%s: %s%s=%d", expr, rollsStr, modStr, total)
	return total, rolls, breakdown, nil
}

func cryptoRandInt(sides int) (int, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(sides)))
	if err != nil {
		return 0, err
	}
	return int(n.Int64()), nil
}
