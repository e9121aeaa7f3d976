// Command chat is a terminal client for the Quetzal server: log in (or
// register) with a name and email, then talk to the assistant. Stored
// conversations can be listed, resumed, and deleted.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/quetzal-chat/quetzal/internal/client"
	"github.com/quetzal-chat/quetzal/internal/domain"
	"github.com/quetzal-chat/quetzal/internal/session"
)

func main() {
	serverURL := flag.String("server", "http://localhost:3000", "Quetzal server base URL")
	name := flag.String("name", "", "account name")
	email := flag.String("email", "", "account email")
	register := flag.Bool("register", false, "create the account instead of logging in")
	flag.Parse()

	if *name == "" || *email == "" {
		fmt.Fprintln(os.Stderr, "usage: chat -name <name> -email <email> [-register] [-server URL]")
		os.Exit(2)
	}

	ctx := context.Background()
	api := client.New(*serverURL)

	user, err := login(ctx, api, *name, *email, *register)
	if err != nil {
		log.Fatalf("login failed: %v", err)
	}
	fmt.Printf("Hola %s. Escribe un mensaje, o /help para los comandos.\n", user.Name)

	sess := session.New(user.ID, api, api)
	repl(ctx, api, sess, user.ID)
}

func login(ctx context.Context, api *client.Client, name, email string, register bool) (*domain.User, error) {
	if register {
		return api.Register(ctx, name, email)
	}
	user, err := api.Login(ctx, name, email)
	if client.IsNotFound(err) {
		fmt.Println("Cuenta no encontrada, registrando...")
		return api.Register(ctx, name, email)
	}
	return user, err
}

func repl(ctx context.Context, api *client.Client, sess *session.Session, userID uint) {
	scanner := bufio.NewScanner(os.Stdin)
	fmt.Print("> ")
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
		case line == "/quit", line == "/exit":
			return
		case line == "/help":
			printHelp()
		case line == "/new":
			sess.StartNew()
			fmt.Println("Nueva conversación.")
		case line == "/list":
			listConversations(ctx, api, userID)
		case strings.HasPrefix(line, "/open "):
			openConversation(ctx, sess, strings.TrimPrefix(line, "/open "))
		case strings.HasPrefix(line, "/delete "):
			deleteConversation(ctx, api, sess, strings.TrimPrefix(line, "/delete "))
		case strings.HasPrefix(line, "/"):
			fmt.Println("Comando desconocido. /help para la lista.")
		default:
			send(ctx, sess, line)
		}
		fmt.Print("> ")
	}
}

func printHelp() {
	fmt.Println("/list          listar conversaciones")
	fmt.Println("/open <id>     abrir una conversación guardada")
	fmt.Println("/new           empezar una conversación nueva")
	fmt.Println("/delete <id>   borrar una conversación y sus mensajes")
	fmt.Println("/quit          salir")
}

func send(ctx context.Context, sess *session.Session, text string) {
	answer, err := sess.Send(ctx, text)
	switch {
	case errors.Is(err, session.ErrSendInFlight):
		fmt.Println("Espera, todavía estoy respondiendo el mensaje anterior.")
	case err != nil:
		fmt.Printf("Error: %v\n", err)
	default:
		fmt.Printf("Quetzal: %s\n", answer)
	}
}

func listConversations(ctx context.Context, api *client.Client, userID uint) {
	conversations, err := api.ListConversations(ctx, userID)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	if len(conversations) == 0 {
		fmt.Println("No hay conversaciones guardadas.")
		return
	}
	for _, c := range conversations {
		fmt.Printf("  [%d] %s (%s)\n", c.ID, c.Title, c.CreatedAt.Format("2006-01-02 15:04"))
	}
}

func openConversation(ctx context.Context, sess *session.Session, arg string) {
	id, err := parseID(arg)
	if err != nil {
		fmt.Println(err)
		return
	}
	messages, err := sess.LoadConversation(ctx, id)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	for _, m := range messages {
		speaker := "Tú"
		if m.Role == domain.RoleBot {
			speaker = "Quetzal"
		}
		fmt.Printf("%s: %s\n", speaker, m.Text)
	}
}

func deleteConversation(ctx context.Context, api *client.Client, sess *session.Session, arg string) {
	id, err := parseID(arg)
	if err != nil {
		fmt.Println(err)
		return
	}
	if err := api.DeleteConversation(ctx, id); err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	if sess.ActiveConversation() == id {
		sess.StartNew()
	}
	fmt.Println("Conversación borrada.")
}

func parseID(arg string) (uint, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(arg), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("id inválido: %q", arg)
	}
	return uint(id), nil
}
