// identity-dev runs the in-memory stand-in for the hosted auth service,
// for local development against cmd/admin. Seed users are passed as
// email:password pairs.
package main

import (
	"flag"
	"log"
	"net/http"
	"strings"

	"github.com/joho/godotenv"

	"github.com/undokids/undokids/internal/admin/identity/identitydev"
)

func main() {
	_ = godotenv.Load()

	addr := flag.String("addr", ":9999", "listen address")
	secret := flag.String("secret", "", "HS256 session secret (required, must match AUTH_SESSION_SECRET)")
	serviceKey := flag.String("service-key", "", "service-role key (required)")
	seed := flag.String("seed", "", "comma-separated email:password pairs to register at startup")
	flag.Parse()

	if *secret == "" || *serviceKey == "" {
		log.Fatal("both -secret and -service-key are required")
	}

	srv := identitydev.New([]byte(*secret), *serviceKey)

	for _, pair := range strings.Split(*seed, ",") {
		if pair == "" {
			continue
		}
		email, password, ok := strings.Cut(pair, ":")
		if !ok {
			log.Fatalf("malformed seed entry %q, want email:password", pair)
		}
		id, err := srv.Seed(email, password)
		if err != nil {
			log.Fatalf("seed %s: %v", email, err)
		}
		log.Printf("seeded %s as %s", email, id)
	}

	log.Printf("identity-dev listening on %s", *addr)
	if err := http.ListenAndServe(*addr, srv.Handler()); err != nil {
		log.Fatal(err)
	}
}
