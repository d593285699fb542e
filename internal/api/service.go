package api

import (
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"cramomatic"
)

// Service answers recipe questions against one set of tables. It is safe for
// concurrent use.
type Service struct {
	tables  *cramomatic.Tables
	logger  *zap.Logger
	options *cache.Cache
}

// NewService builds a service whose option lists stay cached for ttl. A cleanup
// interval of 0 leaves expired entries until they are next looked up.
func NewService(tables *cramomatic.Tables, logger *zap.Logger, ttl, cleanup time.Duration) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		tables:  tables,
		logger:  logger,
		options: cache.New(ttl, cleanup),
	}
}

// Tables returns the tables the service answers from.
func (s *Service) Tables() *cramomatic.Tables {
	return s.tables
}

// Recipe resolves exactly four ingredients.
func (s *Service) Recipe(req RecipeRequest) (RecipeResponse, error) {
	if len(req.Items) != 4 {
		return RecipeResponse{}, badRequest("a recipe needs 4 items, got %d", len(req.Items))
	}
	var r cramomatic.Recipe
	for i, name := range req.Items {
		r[i] = strings.TrimSpace(name)
	}

	res, err := s.tables.Resolve(r)
	if err != nil {
		s.logger.Debug("recipe rejected", zap.Strings("items", r[:]), zap.Error(err))
		return RecipeResponse{}, fromEngine(err)
	}
	s.logger.Debug("recipe resolved",
		zap.Strings("items", r[:]),
		zap.String("output", res.Output),
		zap.Bool("special", res.Special),
	)

	resp := RecipeResponse{
		Items:   r[:],
		Output:  res.Output,
		Special: res.Special,
		Text:    cramomatic.FormatRecipe(r, res),
	}
	if !res.Special {
		resp.Type = res.Type.String()
		resp.Score = res.Score
		resp.Range = &res.Range
	}
	return resp, nil
}

// Check reports whether the partial recipe can still produce the output. Names
// the tables do not know make it false, not an error.
func (s *Service) Check(req CheckRequest) (CheckResponse, error) {
	p, err := ParsePartial(req.Items)
	if err != nil {
		return CheckResponse{}, err
	}
	output := strings.TrimSpace(req.Output)
	ok := s.tables.CanProduce(output, p)
	s.logger.Debug("check",
		zap.String("output", output),
		zap.String("partial", cramomatic.FormatPartial(p)),
		zap.Bool("possible", ok),
	)
	return CheckResponse{Output: output, Items: slots(p), Possible: ok}, nil
}

// Options lists the ingredients that keep the output reachable in one slot.
func (s *Service) Options(req OptionsRequest) (OptionsResponse, error) {
	p, err := ParsePartial(req.Items)
	if err != nil {
		return OptionsResponse{}, err
	}
	output := strings.TrimSpace(req.Output)

	cacheable := s.cacheable(output, p)
	key := optionsKey(output, p, req.Slot)
	if cacheable {
		if cached, found := s.options.Get(key); found {
			s.logger.Debug("options cache hit", zap.String("output", output), zap.Int("slot", req.Slot))
			return OptionsResponse{Output: output, Slot: req.Slot, Options: slices.Clone(cached.([]string))}, nil
		}
	}

	opts, err := s.tables.ValidOptions(output, p, req.Slot)
	if err != nil {
		return OptionsResponse{}, fromEngine(err)
	}
	if opts == nil {
		opts = []string{}
	}
	if cacheable {
		s.options.SetDefault(key, slices.Clone(opts))
	}
	s.logger.Debug("options computed",
		zap.String("output", output),
		zap.String("partial", cramomatic.FormatPartial(p)),
		zap.Int("slot", req.Slot),
		zap.Int("count", len(opts)),
	)
	return OptionsResponse{Output: output, Slot: req.Slot, Options: opts}, nil
}

// cacheable limits the option cache to known outputs and known bound items, so
// the key space is bounded by the tables rather than by what clients send.
func (s *Service) cacheable(output string, p cramomatic.PartialRecipe) bool {
	if !s.tables.IsOutput(output) {
		return false
	}
	for _, name := range p {
		if name == "" {
			continue
		}
		if _, err := s.tables.Item(name); err != nil {
			return false
		}
	}
	return true
}

func optionsKey(output string, p cramomatic.PartialRecipe, slot int) string {
	var b strings.Builder
	b.WriteString(output)
	for _, name := range p {
		b.WriteByte(0)
		b.WriteString(name)
	}
	b.WriteByte(0)
	b.WriteString(strconv.Itoa(slot))
	return b.String()
}

// Outputs lists everything a recipe can produce.
func (s *Service) Outputs() OutputsResponse {
	return OutputsResponse{Outputs: s.tables.OutputOptions()}
}

// Items lists every ingredient with its type and score.
func (s *Service) Items() ItemsResponse {
	names := s.tables.InputOptions()
	items := make([]Item, 0, len(names))
	for _, name := range names {
		it, err := s.tables.Item(name)
		if err != nil {
			continue
		}
		items = append(items, Item{Name: it.Name, Type: it.Type.String(), Score: it.Score})
	}
	return ItemsResponse{Items: items}
}
