package server

import (
	"encoding/json"
	"net/http"

	"storefront/internal/admin"
	"storefront/internal/apiclient"
	"storefront/internal/auth"
	"storefront/internal/cache"
	"storefront/internal/logger"
	"storefront/internal/schema"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"
)

const ordersNamespace = "orders"

func (s *Server) health(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) metrics(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	writeJSON(w, http.StatusOK, s.deps.Metrics())
}

func (s *Server) productsPolicy() apiclient.CachePolicy {
	if s.deps.ProductsTTL <= 0 {
		return apiclient.NoCache()
	}
	return apiclient.ServerCache(s.deps.ProductsTTL)
}

func (s *Server) listProducts(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	products, err := s.catalog.Products(r.Context(), r.URL.Query().Get("search"), s.productsPolicy())
	if err != nil {
		logger.ForLayer(r.Context(), "server", "listProducts").Info("products failed", zap.Error(err))
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

func (s *Server) getProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	p, err := s.catalog.Product(r.Context(), ps.ByName("id"), s.productsPolicy())
	if err != nil {
		logger.ForLayer(r.Context(), "server", "getProduct").Info("product failed",
			zap.String("product_id", ps.ByName("id")),
			zap.Error(err),
		)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// adminOrders proxies the order listing. Answers are cached per token for
// AdminOrdersTTL; X-Cache tells whether the cache served it.
func (s *Server) adminOrders(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	token := auth.RequestToken(r)
	if token == "" {
		writeMessage(w, http.StatusUnauthorized, msgUnauthorized)
		return
	}

	body, hit, err := s.cachedOrders(r, token)
	if err != nil {
		writeError(w, err)
		return
	}

	if hit {
		w.Header().Set("X-Cache", "HIT")
	} else {
		w.Header().Set("X-Cache", "MISS")
	}
	writeRaw(w, http.StatusOK, body)
}

func (s *Server) cachedOrders(r *http.Request, token string) ([]byte, bool, error) {
	ctx := r.Context()
	log := logger.ForLayer(ctx, "server", "adminOrders")
	key := cache.Key(ordersNamespace, token)

	if s.deps.AdminOrdersTTL > 0 {
		raw, ok, err := s.cache.Get(ctx, key)
		if err != nil {
			log.Warn("cache read failed", zap.Error(err))
		}
		if ok {
			return raw, true, nil
		}
	}

	orders, err := s.admin.ListOrders(ctx, token)
	if err != nil {
		log.Info("orders failed", zap.Error(err))
		return nil, false, err
	}

	body, err := json.Marshal(orders)
	if err != nil {
		return nil, false, err
	}

	if s.deps.AdminOrdersTTL > 0 {
		if err := s.cache.Set(ctx, key, body, s.deps.AdminOrdersTTL); err != nil {
			log.Warn("cache write failed", zap.Error(err))
		}
	}
	return body, false, nil
}

func (s *Server) markDelivered(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx := r.Context()
	token := auth.RequestToken(r)
	if token == "" {
		writeMessage(w, http.StatusUnauthorized, msgUnauthorized)
		return
	}

	msg, err := s.admin.MarkDelivered(ctx, token, ps.ByName("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	if err := s.cache.Delete(ctx, cache.Key(ordersNamespace, token)); err != nil {
		logger.ForLayer(ctx, "server", "markDelivered").Warn("cache invalidation failed", zap.Error(err))
	}
	writeJSON(w, http.StatusOK, msg)
}

func (s *Server) adminSummary(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	token := auth.RequestToken(r)
	if token == "" {
		writeMessage(w, http.StatusUnauthorized, msgUnauthorized)
		return
	}

	body, _, err := s.cachedOrders(r, token)
	if err != nil {
		writeError(w, err)
		return
	}

	var orders []schema.Order
	if err := json.Unmarshal(body, &orders); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, admin.Summarize(orders))
}
