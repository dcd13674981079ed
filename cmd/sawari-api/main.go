// README: Entry point; loads config, wires services, rebuilds indexes, starts the HTTP server.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sawari/internal/config"
	"sawari/internal/geo"
	httptransport "sawari/internal/http"
	"sawari/internal/http/handlers"
	"sawari/internal/infra"
	"sawari/internal/modules/ride"
	"sawari/internal/modules/search"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPool, err := infra.NewDB(ctx, cfg.DB.DSN)
	if err != nil {
		log.Fatal(err)
	}
	defer dbPool.Close()

	redisClient := infra.NewRedis(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)

	gazetteer := geo.NewGazetteer()
	var geocoder geo.Geocoder
	if cfg.Geo.MapsAPIKey != "" {
		geocoder, err = geo.NewMapsGeocoder(cfg.Geo.MapsAPIKey, cfg.Geo.Region)
		if err != nil {
			log.Fatalf("geocoder init: %v", err)
		}
	} else {
		log.Println("no maps API key configured; geocoding fallback disabled")
	}
	resolver := geo.NewResolver(gazetteer, geocoder,
		time.Duration(cfg.Geo.GeocodeTimeoutSeconds)*time.Second)

	rideStore := ride.NewStore(dbPool)

	geoIndex := search.NewGeoIndex(redisClient)
	corridorIndex := search.NewCorridorIndex()
	indexes := search.Indexes{Geo: geoIndex, Corridor: corridorIndex}

	cache := search.NewRedisCache(redisClient)
	searchSvc := search.NewService(
		rideStore,
		resolver,
		search.NewNameMatchSource(rideStore),
		search.NewProximityMatchSource(geoIndex),
		search.NewCorridorMatchSource(corridorIndex),
		cache,
		cfg.Search,
	)

	rideSvc := ride.NewService(rideStore, resolver, indexes, searchSvc)

	// Rebuild the geo and corridor indexes so restarts do not lose
	// proximity and corridor matching.
	projections, err := rideStore.FetchAllProjections(ctx)
	if err != nil {
		log.Fatalf("load rides for index rebuild: %v", err)
	}
	if err := indexes.Rebuild(ctx, projections); err != nil {
		log.Fatalf("index rebuild: %v", err)
	}
	log.Printf("indexed %d rides", len(projections))

	searchHandler := handlers.NewSearchHandler(searchSvc, gazetteer, cfg.Search)
	rideHandler := handlers.NewRideHandler(rideSvc)
	router := httptransport.NewRouter(searchHandler, rideHandler)

	server := &http.Server{Addr: cfg.HTTP.Addr, Handler: router}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	log.Printf("listening on %s", cfg.HTTP.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}
