package server

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"

	"github.com/nxthub/influencewise/internal/advisory"
	"github.com/nxthub/influencewise/misc"
)

// checkDuplicate is the one-shot duplicate check. A missing client or a
// failed call both answer null: advisories are informational and degrade
// to "no anomaly found", they never produce a user-facing error.
func checkDuplicate(s *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		var f advisory.DuplicateFields
		if err := misc.BindJSON(c, &f); err != nil {
			c.JSON(400, misc.StatusErr("Error unmarshalling request body"))
			return
		}
		if s.advisory == nil || !f.Valid() {
			c.JSON(200, gin.H{"advisory": nil})
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), s.Cfg.Advisory.Timeout)
		defer cancel()
		adv, err := s.advisory.CheckDuplicate(ctx, f, s.knownProfiles())
		if err != nil {
			log.Println("duplicate check failed:", err)
			c.JSON(200, gin.H{"advisory": nil})
			return
		}
		c.JSON(200, gin.H{"advisory": adv})
	}
}

func checkPrice(s *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			InfluencerId  string  `json:"influencerId"`
			ProposedPrice float64 `json:"proposedPrice"`
		}
		if err := misc.BindJSON(c, &req); err != nil {
			c.JSON(400, misc.StatusErr("Error unmarshalling request body"))
			return
		}
		name, marks := s.priceBenchmarks(req.InfluencerId)
		f := advisory.PriceFields{
			InfluencerName: name,
			ProposedPrice:  req.ProposedPrice,
			Benchmarks:     marks,
		}
		if s.advisory == nil || !f.Valid() {
			c.JSON(200, gin.H{"advisory": nil})
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), s.Cfg.Advisory.Timeout)
		defer cancel()
		adv, err := s.advisory.CheckPrice(ctx, f)
		if err != nil {
			log.Println("price check failed:", err)
			c.JSON(200, gin.H{"advisory": nil})
			return
		}
		c.JSON(200, gin.H{"advisory": adv})
	}
}
