// README: Offline console demo; runs visitor messages through the turn pipeline without network or storage.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"townguide/internal/action"
	"townguide/internal/catalog"
	"townguide/internal/entity"
	"townguide/internal/logger"
	"townguide/internal/modules/conversation"
	"townguide/internal/modules/pricing"
	"townguide/internal/service"
	"townguide/internal/situation"
	"townguide/internal/types"
)

var script = []string{
	"Szia!",
	"Mit érdemes megnézni a városban?",
	"Hol lehet parkolni?",
	"igen",
	"ABC-123",
	"3 órára",
	"rendben",
	"ne mentsd",
	"Merre van a Tábornokház?",
}

func main() {
	lat := flag.Float64("lat", 47.3896, "visitor latitude (0 for unknown)")
	lng := flag.Float64("lng", 16.5402, "visitor longitude")
	speed := flag.Float64("speed", 0, "visitor speed in km/h")
	interactive := flag.Bool("i", false, "read messages from stdin instead of the built-in script")
	flag.Parse()

	log := logger.NewNoOpLogger()
	cat, err := catalog.Load("")
	if err != nil {
		fmt.Fprintln(os.Stderr, "catalog:", err)
		os.Exit(1)
	}

	center := types.Point{Lat: 47.3896, Lng: 16.5402}
	fees := pricing.NewService(nil, types.Money{Amount: 400, Currency: "HUF"})
	assistant := service.NewAssistant(service.Deps{
		Town:      service.Town{Name: "Kőszeg", Center: center},
		Timezone:  time.Local,
		Catalog:   cat,
		Extractor: entity.NewFromPath("", cat, log),
		Assembler: service.NewAssembler(situation.NewAnalyzer(center, 0, 0), time.Local),
		Executor:  action.NewExecutor(nil, fees, nil, center, log),
		Fees:      fees,
		Logger:    log,
	})

	in := service.ContextInput{Speed: *speed, SessionID: "demo"}
	if *lat != 0 || *lng != 0 {
		in.Location = &types.Point{Lat: *lat, Lng: *lng}
	}

	next := scripted()
	if *interactive {
		next = fromStdin()
	}

	var history []conversation.Message
	ctx := context.Background()
	for {
		msg, ok := next()
		if !ok {
			return
		}
		fmt.Printf("Látogató: %s\n", msg)
		resp := assistant.HandleTurn(ctx, service.TurnRequest{Query: msg, History: history, Context: in})
		fmt.Printf("Asszisztens [%s, %s]: %s\n", resp.ReplyType, resp.NewState.Phase, resp.Text)
		if resp.Action != nil {
			fmt.Printf("  -> action %s %v\n", resp.Action.Type, resp.Action.Params)
		}
		if resp.Upsell != nil {
			fmt.Printf("  -> kiemelt: %s\n", resp.Upsell.Name)
		}
		fmt.Println()

		st := resp.NewState
		in.SessionState = &st
		history = append(history,
			conversation.Message{Role: conversation.RoleUser, Content: msg},
			conversation.Message{Role: conversation.RoleAssistant, Content: resp.Text})
	}
}

func scripted() func() (string, bool) {
	i := 0
	return func() (string, bool) {
		if i >= len(script) {
			return "", false
		}
		i++
		return script[i-1], true
	}
}

func fromStdin() func() (string, bool) {
	sc := bufio.NewScanner(os.Stdin)
	return func() (string, bool) {
		for sc.Scan() {
			if line := strings.TrimSpace(sc.Text()); line != "" {
				return line, true
			}
		}
		return "", false
	}
}
