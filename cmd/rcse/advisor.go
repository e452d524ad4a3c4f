package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Reece236/StockMarketSim/internal/domain"
	"github.com/Reece236/StockMarketSim/internal/market"
)

// consoleAdvisor prompts on the terminal for a buy/hold/sell decision per
// held instrument of the designated trader. Blank or unparseable input
// means hold.
type consoleAdvisor struct {
	in  *bufio.Scanner
	out io.Writer
}

func newConsoleAdvisor(in io.Reader, out io.Writer) *consoleAdvisor {
	return &consoleAdvisor{in: bufio.NewScanner(in), out: out}
}

func (a *consoleAdvisor) Decide(trader *domain.Trader, inst *domain.Instrument) (market.Action, int64) {
	fmt.Fprintf(a.out, "%s: %d held at %.2f, cash %.2f. buy/hold/sell [qty]? ",
		inst.ID, trader.Positions[inst.ID], inst.Price, trader.Cash)
	if !a.in.Scan() {
		return market.ActionHold, 0
	}
	fields := strings.Fields(a.in.Text())
	if len(fields) == 0 {
		return market.ActionHold, 0
	}

	action := market.Action(strings.ToLower(fields[0]))
	if action != market.ActionBuy && action != market.ActionSell {
		return market.ActionHold, 0
	}

	quantity := int64(1)
	if len(fields) > 1 {
		n, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil || n <= 0 {
			return market.ActionHold, 0
		}
		quantity = n
	}
	return action, quantity
}
