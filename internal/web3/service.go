package web3

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/panjf2000/ants/v2"

	"github.com/z1shivam/blocklift/internal/config"
	"github.com/z1shivam/blocklift/internal/contract"
	"github.com/z1shivam/blocklift/internal/logger"
	"github.com/z1shivam/blocklift/internal/wallet"
)

// Campaign parameter bounds mirrored from the contract. Violations are
// rejected client-side before any network call.
const (
	MaxTitleLength       = 100
	MinDescriptionLength = 50
	MaxDescriptionLength = 1000
	MinDurationDays      = 1
	MaxDurationDays      = 365
)

var (
	minGoalWei = mustWei("0.01")
	maxGoalWei = mustWei("1000")
)

func mustWei(eth string) *big.Int {
	wei, err := EthToWei(eth)
	if err != nil {
		panic(err)
	}
	return wei
}

// contractBinding is the slice of bind.BoundContract the service uses.
type contractBinding interface {
	Call(opts *bind.CallOpts, results *[]interface{}, method string, params ...interface{}) error
	Transact(opts *bind.TransactOpts, method string, params ...interface{}) (*types.Transaction, error)
}

// receiptWaiter blocks until a submitted transaction is confirmed.
type receiptWaiter interface {
	WaitMined(ctx context.Context, tx *types.Transaction) (*types.Receipt, error)
}

// authorizer produces signed transact options for the active wallet account.
type authorizer interface {
	Authorize(ctx context.Context, chainID *big.Int, req wallet.TxRequest) (*bind.TransactOpts, error)
	ActiveAccount() (common.Address, bool)
}

// Service is the crowdfunding contract adapter. Read operations need only a
// network endpoint; state-changing operations additionally need a wallet.
// Connection setup is lazy: the first operation dials the endpoint.
type Service struct {
	cfg    config.ChainConfig
	wallet authorizer // nil in read-only deployments

	initMu     sync.Mutex
	client     *ethclient.Client
	wsClient   *ethclient.Client
	contract   *contract.Contract
	binding    contractBinding
	waiter     receiptWaiter
	subscriber logSubscriber
	pool       *ants.Pool
}

// NewService creates an adapter for the configured contract. walletMgr may be
// nil, in which case only read operations are available.
func NewService(cfg config.ChainConfig, walletMgr *wallet.Manager) *Service {
	s := &Service{cfg: cfg}
	if walletMgr != nil {
		s.wallet = walletMgr
	}
	return s
}

// ensureReadOnly dials the HTTP endpoint and binds the contract once.
func (s *Service) ensureReadOnly(ctx context.Context) error {
	s.initMu.Lock()
	defer s.initMu.Unlock()
	if s.binding != nil {
		return nil
	}

	client, err := ethclient.DialContext(ctx, s.cfg.RpcUrl)
	if err != nil {
		return fmt.Errorf("failed to connect to chain endpoint: %w", err)
	}

	bound, err := contract.New(common.HexToAddress(s.cfg.ContractAddr), client)
	if err != nil {
		client.Close()
		return err
	}

	s.client = client
	s.contract = bound
	s.binding = bound.Bound()
	s.waiter = &ethWaiter{client: client, confirmations: s.cfg.Confirmations}
	logger.Info("Connected to chain %d, contract %s", s.cfg.ChainId, bound.Address().Hex())
	return nil
}

// ensureWallet checks wallet mode is available on top of the read path.
func (s *Service) ensureWallet(ctx context.Context) error {
	if s.wallet == nil {
		return errors.New("wallet not configured: state-changing operations unavailable")
	}
	return s.ensureReadOnly(ctx)
}

// CreateCampaign validates the inputs, converts the goal to wei and submits
// createCampaign. The result is classified; no failure escapes as an error.
func (s *Service) CreateCampaign(ctx context.Context, in CreateCampaignInput) *TxResult {
	goalWei, err := validateCreateInput(in)
	if err != nil {
		return s.failure("createCampaign", err)
	}
	if err := s.ensureWallet(ctx); err != nil {
		return s.failure("createCampaign", err)
	}

	auth, err := s.wallet.Authorize(ctx, big.NewInt(s.cfg.ChainId), wallet.TxRequest{Method: "createCampaign"})
	if err != nil {
		return s.failure("createCampaign", err)
	}

	tx, err := s.binding.Transact(auth, "createCampaign",
		in.Title, in.Description, in.ImageHash, in.Category, goalWei, big.NewInt(in.DurationDays))
	if err != nil {
		return s.failure("createCampaign", err)
	}
	return s.awaitConfirmation(ctx, "createCampaign", tx)
}

// Contribute attaches the amount as transaction value and submits contribute.
func (s *Service) Contribute(ctx context.Context, campaignID int64, amountEth string) *TxResult {
	amountWei, err := EthToWei(amountEth)
	if err != nil {
		return s.failure("contribute", &ValidationError{Field: "amount", Message: "Contribution must be a positive ETH amount"})
	}
	if err := s.ensureWallet(ctx); err != nil {
		return s.failure("contribute", err)
	}

	auth, err := s.wallet.Authorize(ctx, big.NewInt(s.cfg.ChainId), wallet.TxRequest{
		Method:     "contribute",
		CampaignID: campaignID,
		Value:      amountWei,
	})
	if err != nil {
		return s.failure("contribute", err)
	}

	tx, err := s.binding.Transact(auth, "contribute", big.NewInt(campaignID))
	if err != nil {
		return s.failure("contribute", err)
	}
	return s.awaitConfirmation(ctx, "contribute", tx)
}

// WithdrawFunds submits withdrawFunds; creator-only rules are enforced by
// the contract.
func (s *Service) WithdrawFunds(ctx context.Context, campaignID int64) *TxResult {
	return s.simpleTransact(ctx, "withdrawFunds", campaignID)
}

// ClaimRefund submits claimRefund; eligibility is enforced by the contract.
func (s *Service) ClaimRefund(ctx context.Context, campaignID int64) *TxResult {
	return s.simpleTransact(ctx, "claimRefund", campaignID)
}

func (s *Service) simpleTransact(ctx context.Context, method string, campaignID int64) *TxResult {
	if err := s.ensureWallet(ctx); err != nil {
		return s.failure(method, err)
	}

	auth, err := s.wallet.Authorize(ctx, big.NewInt(s.cfg.ChainId), wallet.TxRequest{
		Method:     method,
		CampaignID: campaignID,
	})
	if err != nil {
		return s.failure(method, err)
	}

	tx, err := s.binding.Transact(auth, method, big.NewInt(campaignID))
	if err != nil {
		return s.failure(method, err)
	}
	return s.awaitConfirmation(ctx, method, tx)
}

// awaitConfirmation blocks until the transaction is mined and confirmed.
// Success is never reported on mere submission.
func (s *Service) awaitConfirmation(ctx context.Context, method string, tx *types.Transaction) *TxResult {
	receipt, err := s.waiter.WaitMined(ctx, tx)
	if err != nil {
		return s.failure(method, fmt.Errorf("failed waiting for confirmation: %w", err))
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return s.failure(method, fmt.Errorf("execution reverted: transaction %s failed on-chain", tx.Hash().Hex()))
	}
	logger.Info("%s confirmed in block %d (tx %s)", method, receipt.BlockNumber, tx.Hash().Hex())
	return &TxResult{Success: true, TxHash: tx.Hash().Hex()}
}

func (s *Service) failure(method string, err error) *TxResult {
	code, msg := classify(err)
	if code == FailureValidation {
		logger.Warn("%s rejected: %v", method, err)
	} else {
		logger.Error("%s failed: %v", method, err)
	}
	return &TxResult{Success: false, Code: code, Message: msg}
}

func validateCreateInput(in CreateCampaignInput) (*big.Int, error) {
	if len(in.Title) == 0 || len(in.Title) > MaxTitleLength {
		return nil, &ValidationError{Field: "title", Message: "Title must be between 1-100 characters"}
	}
	if len(in.Description) < MinDescriptionLength || len(in.Description) > MaxDescriptionLength {
		return nil, &ValidationError{Field: "description", Message: "Description must be between 50-1000 characters"}
	}
	goalWei, err := EthToWei(in.GoalEth)
	if err != nil {
		return nil, &ValidationError{Field: "goal", Message: "Goal must be a decimal ETH amount"}
	}
	if goalWei.Cmp(minGoalWei) < 0 || goalWei.Cmp(maxGoalWei) > 0 {
		return nil, &ValidationError{Field: "goal", Message: "Goal must be between 0.01-1000 ETH"}
	}
	if in.DurationDays < MinDurationDays || in.DurationDays > MaxDurationDays {
		return nil, &ValidationError{Field: "durationInDays", Message: "Duration must be between 1-365 days"}
	}
	return goalWei, nil
}

// GetCampaignDetails reads and strictly decodes the 13-tuple for one
// campaign. A contract-side revert maps to ErrCampaignNotFound.
func (s *Service) GetCampaignDetails(ctx context.Context, campaignID int64) (*CampaignDetails, error) {
	if err := s.ensureReadOnly(ctx); err != nil {
		return nil, err
	}

	var out []interface{}
	if err := s.binding.Call(&bind.CallOpts{Context: ctx}, &out, "getCampaignDetails", big.NewInt(campaignID)); err != nil {
		if isRevert(err) {
			return nil, fmt.Errorf("campaign %d: %w", campaignID, ErrCampaignNotFound)
		}
		return nil, fmt.Errorf("getCampaignDetails(%d): %w", campaignID, err)
	}
	return decodeCampaignDetails(campaignID, out)
}

// GetCampaignStats reads the derived per-campaign stats tuple.
func (s *Service) GetCampaignStats(ctx context.Context, campaignID int64) (*CampaignStats, error) {
	if err := s.ensureReadOnly(ctx); err != nil {
		return nil, err
	}

	var out []interface{}
	if err := s.binding.Call(&bind.CallOpts{Context: ctx}, &out, "getCampaignStats", big.NewInt(campaignID)); err != nil {
		if isRevert(err) {
			return nil, fmt.Errorf("campaign %d: %w", campaignID, ErrCampaignNotFound)
		}
		return nil, fmt.Errorf("getCampaignStats(%d): %w", campaignID, err)
	}
	if len(out) != 4 {
		return nil, fmt.Errorf("getCampaignStats: got %d values, want 4", len(out))
	}

	percentage, err := asBigInt(out[0], "percentageFunded")
	if err != nil {
		return nil, err
	}
	timeLeft, err := asBigInt(out[1], "timeLeft")
	if err != nil {
		return nil, err
	}
	contributors, err := asBigInt(out[2], "contributorCount")
	if err != nil {
		return nil, err
	}
	expired, err := asBool(out[3], "isExpired")
	if err != nil {
		return nil, err
	}

	return &CampaignStats{
		PercentageFunded: percentage.Int64(),
		TimeLeft:         timeLeft.Int64(),
		ContributorCount: contributors.Int64(),
		IsExpired:        expired,
	}, nil
}

// GetPlatformStats reads the aggregate platform counters.
func (s *Service) GetPlatformStats(ctx context.Context) (*PlatformStats, error) {
	if err := s.ensureReadOnly(ctx); err != nil {
		return nil, err
	}

	var out []interface{}
	if err := s.binding.Call(&bind.CallOpts{Context: ctx}, &out, "getPlatformStats"); err != nil {
		return nil, fmt.Errorf("getPlatformStats: %w", err)
	}
	if len(out) != 5 {
		return nil, fmt.Errorf("getPlatformStats: got %d values, want 5", len(out))
	}

	totalCampaigns, err := asBigInt(out[0], "totalCampaigns")
	if err != nil {
		return nil, err
	}
	totalRaised, err := asBigInt(out[1], "totalFundsRaised")
	if err != nil {
		return nil, err
	}
	successful, err := asBigInt(out[2], "successfulCampaigns")
	if err != nil {
		return nil, err
	}
	contributors, err := asBigInt(out[3], "totalContributors")
	if err != nil {
		return nil, err
	}
	fees, err := asBigInt(out[4], "platformFeesCollected")
	if err != nil {
		return nil, err
	}

	return &PlatformStats{
		TotalCampaigns:        totalCampaigns.Int64(),
		TotalFundsRaised:      WeiToEth(totalRaised),
		SuccessfulCampaigns:   successful.Int64(),
		TotalContributors:     contributors.Int64(),
		PlatformFeesCollected: WeiToEth(fees),
	}, nil
}

// GetUserContribution returns one account's contribution to a campaign as a
// decimal ETH string ("0.0" when none).
func (s *Service) GetUserContribution(ctx context.Context, campaignID int64, address string) (string, error) {
	if err := s.ensureReadOnly(ctx); err != nil {
		return "0.0", err
	}

	var out []interface{}
	if err := s.binding.Call(&bind.CallOpts{Context: ctx}, &out, "getContribution", big.NewInt(campaignID), common.HexToAddress(address)); err != nil {
		return "0.0", fmt.Errorf("getContribution(%d, %s): %w", campaignID, address, err)
	}
	if len(out) != 1 {
		return "0.0", fmt.Errorf("getContribution: got %d values, want 1", len(out))
	}
	amount, err := asBigInt(out[0], "contribution")
	if err != nil {
		return "0.0", err
	}
	return WeiToEth(amount), nil
}

// CanClaimRefund reports whether the contract would allow a refund claim for
// the given contributor.
func (s *Service) CanClaimRefund(ctx context.Context, campaignID int64, address string) (bool, error) {
	if err := s.ensureReadOnly(ctx); err != nil {
		return false, err
	}

	var out []interface{}
	if err := s.binding.Call(&bind.CallOpts{Context: ctx}, &out, "canClaimRefund", big.NewInt(campaignID), common.HexToAddress(address)); err != nil {
		return false, fmt.Errorf("canClaimRefund(%d, %s): %w", campaignID, address, err)
	}
	if len(out) != 1 {
		return false, fmt.Errorf("canClaimRefund: got %d values, want 1", len(out))
	}
	return asBool(out[0], "canClaimRefund")
}

// GetTotalCampaigns reads campaignCounter.
func (s *Service) GetTotalCampaigns(ctx context.Context) (int64, error) {
	if err := s.ensureReadOnly(ctx); err != nil {
		return 0, err
	}

	var out []interface{}
	if err := s.binding.Call(&bind.CallOpts{Context: ctx}, &out, "campaignCounter"); err != nil {
		return 0, fmt.Errorf("campaignCounter: %w", err)
	}
	if len(out) != 1 {
		return 0, fmt.Errorf("campaignCounter: got %d values, want 1", len(out))
	}
	counter, err := asBigInt(out[0], "campaignCounter")
	if err != nil {
		return 0, err
	}
	return counter.Int64(), nil
}

// GetAllCampaigns returns up to limit active campaigns starting at start, in
// descending id order (newest first). Inactive campaigns are filtered out;
// per-campaign read failures are logged and skipped.
func (s *Service) GetAllCampaigns(ctx context.Context, start, limit int64) ([]*CampaignDetails, error) {
	total, err := s.GetTotalCampaigns(ctx)
	if err != nil {
		return nil, err
	}
	if start < 0 {
		start = 0
	}
	if limit <= 0 {
		limit = 20
	}
	end := start + limit
	if end > total {
		end = total
	}
	if end <= start {
		return []*CampaignDetails{}, nil
	}

	n := end - start
	slots := make([]*CampaignDetails, n)
	pool := s.fetchPool()

	var wg sync.WaitGroup
	for i := int64(0); i < n; i++ {
		idx := i
		id := end - 1 - i // descending ids
		wg.Add(1)
		s.submit(pool, func() {
			defer wg.Done()
			details, err := s.GetCampaignDetails(ctx, id)
			if err != nil {
				if !errors.Is(err, ErrCampaignNotFound) {
					logger.Error("Failed to fetch campaign %d: %v", id, err)
				}
				return
			}
			if details.IsActive {
				slots[idx] = details
			}
		})
	}
	wg.Wait()

	campaigns := make([]*CampaignDetails, 0, n)
	for _, d := range slots {
		if d != nil {
			campaigns = append(campaigns, d)
		}
	}
	return campaigns, nil
}

// GetCampaignsByCreator scans all campaigns and returns those created by the
// given address, newest first. Inactive campaigns are included so creators
// see their full history.
func (s *Service) GetCampaignsByCreator(ctx context.Context, creator string) ([]*CampaignDetails, error) {
	total, err := s.GetTotalCampaigns(ctx)
	if err != nil {
		return nil, err
	}
	if total == 0 {
		return []*CampaignDetails{}, nil
	}

	slots := make([]*CampaignDetails, total)
	pool := s.fetchPool()

	var wg sync.WaitGroup
	for i := int64(0); i < total; i++ {
		id := i
		wg.Add(1)
		s.submit(pool, func() {
			defer wg.Done()
			details, err := s.GetCampaignDetails(ctx, id)
			if err != nil {
				if !errors.Is(err, ErrCampaignNotFound) {
					logger.Error("Failed to fetch campaign %d: %v", id, err)
				}
				return
			}
			if strings.EqualFold(details.Creator, creator) {
				slots[id] = details
			}
		})
	}
	wg.Wait()

	campaigns := make([]*CampaignDetails, 0, 8)
	for i := total - 1; i >= 0; i-- {
		if slots[i] != nil {
			campaigns = append(campaigns, slots[i])
		}
	}
	return campaigns, nil
}

// fetchPool lazily creates the worker pool used for bulk campaign reads.
func (s *Service) fetchPool() *ants.Pool {
	s.initMu.Lock()
	defer s.initMu.Unlock()
	if s.pool == nil {
		size := s.cfg.FetchWorkers
		if size <= 0 {
			size = 8
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			logger.Warn("Failed to create fetch pool, reads run inline: %v", err)
			return nil
		}
		s.pool = pool
	}
	return s.pool
}

// submit runs the task on the pool, falling back to inline execution.
func (s *Service) submit(pool *ants.Pool, task func()) {
	if pool == nil || pool.Submit(task) != nil {
		task()
	}
}

// Close releases the worker pool and network connections.
func (s *Service) Close() {
	s.initMu.Lock()
	defer s.initMu.Unlock()
	if s.pool != nil {
		s.pool.Release()
		s.pool = nil
	}
	if s.client != nil {
		s.client.Close()
		s.client = nil
	}
	if s.wsClient != nil {
		s.wsClient.Close()
		s.wsClient = nil
	}
	s.subscriber = nil
	s.binding = nil
}

func decodeCampaignDetails(campaignID int64, out []interface{}) (*CampaignDetails, error) {
	if len(out) != 13 {
		return nil, fmt.Errorf("getCampaignDetails: got %d values, want 13", len(out))
	}

	creator, err := asAddress(out[0], "creator")
	if err != nil {
		return nil, err
	}
	title, err := asString(out[1], "title")
	if err != nil {
		return nil, err
	}
	description, err := asString(out[2], "description")
	if err != nil {
		return nil, err
	}
	imageHash, err := asString(out[3], "imageHash")
	if err != nil {
		return nil, err
	}
	category, err := asString(out[4], "category")
	if err != nil {
		return nil, err
	}
	goal, err := asBigInt(out[5], "goal")
	if err != nil {
		return nil, err
	}
	deadline, err := asBigInt(out[6], "deadline")
	if err != nil {
		return nil, err
	}
	totalRaised, err := asBigInt(out[7], "totalRaised")
	if err != nil {
		return nil, err
	}
	createdAt, err := asBigInt(out[8], "createdAt")
	if err != nil {
		return nil, err
	}
	goalReached, err := asBool(out[9], "goalReached")
	if err != nil {
		return nil, err
	}
	fundsWithdrawn, err := asBool(out[10], "fundsWithdrawn")
	if err != nil {
		return nil, err
	}
	isActive, err := asBool(out[11], "isActive")
	if err != nil {
		return nil, err
	}
	contributorCount, err := asBigInt(out[12], "contributorCount")
	if err != nil {
		return nil, err
	}

	return &CampaignDetails{
		ID:               campaignID,
		Creator:          creator.Hex(),
		Title:            title,
		Description:      description,
		ImageHash:        imageHash,
		Category:         category,
		Goal:             WeiToEth(goal),
		Deadline:         deadline.Int64(),
		TotalRaised:      WeiToEth(totalRaised),
		CreatedAt:        createdAt.Int64(),
		GoalReached:      goalReached,
		FundsWithdrawn:   fundsWithdrawn,
		IsActive:         isActive,
		ContributorCount: contributorCount.Int64(),
	}, nil
}

func asAddress(v interface{}, name string) (common.Address, error) {
	addr, ok := v.(common.Address)
	if !ok {
		return common.Address{}, fmt.Errorf("%s is %T, want common.Address", name, v)
	}
	return addr, nil
}

func asString(v interface{}, name string) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%s is %T, want string", name, v)
	}
	return s, nil
}

func asBigInt(v interface{}, name string) (*big.Int, error) {
	n, ok := v.(*big.Int)
	if !ok {
		return nil, fmt.Errorf("%s is %T, want *big.Int", name, v)
	}
	return n, nil
}

func asBool(v interface{}, name string) (bool, error) {
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("%s is %T, want bool", name, v)
	}
	return b, nil
}

// ethWaiter waits for inclusion plus the configured confirmation depth.
type ethWaiter struct {
	client        *ethclient.Client
	confirmations int
}

func (w *ethWaiter) WaitMined(ctx context.Context, tx *types.Transaction) (*types.Receipt, error) {
	receipt, err := bind.WaitMined(ctx, w.client, tx)
	if err != nil {
		return nil, err
	}

	for w.confirmations > 1 {
		head, err := w.client.BlockNumber(ctx)
		if err != nil {
			return nil, err
		}
		if head >= receipt.BlockNumber.Uint64()+uint64(w.confirmations)-1 {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(time.Second):
		}
	}
	return receipt, nil
}
