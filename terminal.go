package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"abena-car-sales/config"
	"abena-car-sales/models"
	"abena-car-sales/services"
)

const terminalHelp = `Commands:
  /book               book an inspection of the last proposed car
  /name NAME          tell Abena your name (also /phone, /email)
  /narrate on|off     read replies aloud
  /stats              show lead statistics
  /export json|sessions|bookings
  /clear              clear the chat
  /quit               leave`

func newChatCmd() *cobra.Command {
	var instant bool
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Chat with Abena in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			var pacer services.Pacer = services.NewHumanPacer(cfg.TypingSeed)
			if instant {
				pacer = services.InstantPacer{}
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			a, err := newApp(ctx, cfg, pacer)
			if err != nil {
				return err
			}

			t := newTerminal(a.conversation, a.store, cmd.InOrStdin(), cmd.OutOrStdout())
			return t.run(ctx)
		},
	}
	cmd.Flags().BoolVar(&instant, "instant", false, "print replies at once instead of typing them out")
	return cmd
}

// terminal is a line-oriented chat client. Replies are printed as they are
// revealed, one delta at a time.
type terminal struct {
	conv     *services.Conversation
	store    *services.Store
	in       *bufio.Scanner
	out      io.Writer
	prompt   bool
	proposal *models.BookingProposal
}

func newTerminal(conv *services.Conversation, store *services.Store, in io.Reader, out io.Writer) *terminal {
	t := &terminal{conv: conv, store: store, in: bufio.NewScanner(in), out: out}
	if f, ok := in.(*os.File); ok {
		t.prompt = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return t
}

func (t *terminal) run(ctx context.Context) error {
	for _, m := range t.conv.Messages() {
		t.printMessage(m)
	}
	fmt.Fprintln(t.out, "(type /help for commands)")

	for {
		if t.prompt {
			fmt.Fprint(t.out, "\nYou: ")
		}
		if !t.in.Scan() {
			return t.in.Err()
		}
		line := strings.TrimSpace(t.in.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "/") {
			quit, err := t.command(line)
			if err != nil {
				fmt.Fprintf(t.out, "Error: %v\n", err)
			}
			if quit {
				return nil
			}
			continue
		}

		if err := t.send(ctx, line); err != nil {
			if ctx.Err() != nil {
				fmt.Fprintln(t.out)
				return nil
			}
			fmt.Fprintf(t.out, "Error: %v\n", err)
		}
	}
}

func (t *terminal) send(ctx context.Context, text string) error {
	printed := 0
	final, err := t.conv.Send(ctx, text, nil, services.ChatHooks{
		OnMessage: func(m models.Message) {
			if m.Sender == models.SenderAI && m.Text == "" {
				fmt.Fprint(t.out, "Abena: ")
			} else if m.Sender == models.SenderAI {
				// Apology for a failed completion; it is never streamed.
				t.printMessage(m)
			}
		},
		RenderHooks: services.RenderHooks{
			OnUpdate: func(partial string) {
				fmt.Fprint(t.out, partial[printed:])
				printed = len(partial)
			},
		},
	})
	if err != nil {
		return err
	}
	if printed > 0 || final.Text == "" {
		fmt.Fprintln(t.out)
	}

	for _, url := range final.AIImages {
		fmt.Fprintf(t.out, "  [photo] %s\n", url)
	}
	if final.BookingProposal != nil {
		t.proposal = final.BookingProposal
		fmt.Fprintf(t.out, "  Type /book to schedule an inspection of the %s.\n", final.BookingProposal.CarName)
	}
	return nil
}

func (t *terminal) command(line string) (quit bool, err error) {
	name, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch name {
	case "/quit", "/exit":
		return true, nil
	case "/help":
		fmt.Fprintln(t.out, terminalHelp)
	case "/book":
		if t.proposal == nil {
			return false, fmt.Errorf("no booking has been proposed yet")
		}
		_, msg, err := t.conv.ConfirmBooking(t.proposal.CarID, t.proposal.CarName)
		if err != nil {
			return false, err
		}
		t.proposal = nil
		t.printMessage(msg)
	case "/name", "/phone", "/email":
		if arg == "" {
			return false, fmt.Errorf("usage: %s VALUE", name)
		}
		var patch models.UserInfoPatch
		switch name {
		case "/name":
			patch.Name = &arg
		case "/phone":
			patch.Phone = &arg
		default:
			patch.Email = &arg
		}
		t.store.UpdateUserInfo(patch)
		fmt.Fprintln(t.out, "Saved.")
	case "/narrate":
		if arg != "on" && arg != "off" {
			return false, fmt.Errorf("usage: /narrate on|off")
		}
		t.conv.SetAutoNarrate(arg == "on")
		fmt.Fprintf(t.out, "Narration %s.\n", arg)
	case "/stats":
		st := t.store.Stats()
		fmt.Fprintf(t.out, "Interactions: %d  Bookings: %d  Hot leads: %d  Conversion: %.1f%%\n",
			st.TotalInteractions, st.ConfirmedBookings, st.HotLeads, st.ConversionRate)
	case "/export":
		return false, t.export(arg)
	case "/clear":
		t.conv.Clear()
		t.proposal = nil
		fmt.Fprintln(t.out, "Chat cleared.")
	default:
		return false, fmt.Errorf("unknown command %s (try /help)", name)
	}
	return false, nil
}

func (t *terminal) export(kind string) error {
	switch kind {
	case "json":
		data, err := t.store.ExportJSON()
		if err != nil {
			return err
		}
		fmt.Fprintln(t.out, string(data))
	case "sessions":
		fmt.Fprintln(t.out, t.store.ExportSessionsCSV())
	case "bookings":
		fmt.Fprintln(t.out, t.store.ExportBookingsCSV())
	default:
		return fmt.Errorf("usage: /export json|sessions|bookings")
	}
	return nil
}

func (t *terminal) printMessage(m models.Message) {
	speaker := "Abena"
	if m.Sender == models.SenderUser {
		speaker = "You"
	}
	fmt.Fprintf(t.out, "%s: %s\n", speaker, m.Text)
}
