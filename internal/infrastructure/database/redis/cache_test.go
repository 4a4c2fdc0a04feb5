package redis

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/turtacn/jyotish-engine/internal/config"
	"github.com/turtacn/jyotish-engine/internal/infrastructure/monitoring/logging"
	pkgerrors "github.com/turtacn/jyotish-engine/pkg/errors"
)

type CacheTestSuite struct {
	suite.Suite
	client *Client
	mock   redismock.ClientMock
	cache  Cache
	hits   int
	misses int
}

func (s *CacheTestSuite) SetupTest() {
	db, mock := redismock.NewClientMock()
	s.mock = mock
	s.hits, s.misses = 0, 0
	s.client = NewClientFromUniversal(db, config.RedisConfig{KeyPrefix: "test:", DefaultTTL: time.Hour}, logging.NewNopLogger())
	s.cache = NewRedisCache(s.client, logging.NewNopLogger(), WithLookupObserver(func(hit bool) {
		if hit {
			s.hits++
		} else {
			s.misses++
		}
	}))
}

func (s *CacheTestSuite) TearDownTest() {
	assert.NoError(s.T(), s.mock.ExpectationsWereMet())
}

type testStruct struct {
	Name  string `json:"name"`
	Cycle int    `json:"cycle"`
}

func encode(t *testing.T, v interface{}) string {
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return string(data)
}

func (s *CacheTestSuite) TestGet_Hit() {
	val := testStruct{Name: "vimshottari", Cycle: 1}
	s.mock.ExpectGet("test:key1").SetVal(encode(s.T(), val))

	var dest testStruct
	require.NoError(s.T(), s.cache.Get(context.Background(), "key1", &dest))
	assert.Equal(s.T(), val, dest)
	assert.Equal(s.T(), 1, s.hits)
}

func (s *CacheTestSuite) TestGet_Miss() {
	s.mock.ExpectGet("test:key1").RedisNil()

	var dest testStruct
	err := s.cache.Get(context.Background(), "key1", &dest)
	assert.Equal(s.T(), ErrCacheMiss, err)
	assert.True(s.T(), pkgerrors.IsNotFound(err))
	assert.Equal(s.T(), 1, s.misses)
}

func (s *CacheTestSuite) TestGet_UndecodableEntryIsAMiss() {
	s.mock.ExpectGet("test:key1").SetVal("{not json")

	var dest testStruct
	assert.Equal(s.T(), ErrCacheMiss, s.cache.Get(context.Background(), "key1", &dest))
	assert.Equal(s.T(), 1, s.misses)
}

func (s *CacheTestSuite) TestGet_BackendError() {
	s.mock.ExpectGet("test:key1").SetErr(errors.New("connection reset"))

	var dest testStruct
	err := s.cache.Get(context.Background(), "key1", &dest)
	assert.True(s.T(), pkgerrors.IsCode(err, pkgerrors.ErrCodeCacheError))
	assert.Zero(s.T(), s.hits+s.misses)
}

func (s *CacheTestSuite) TestSet_DefaultTTL() {
	val := testStruct{Name: "yogini"}
	s.mock.ExpectSet("test:key1", encode(s.T(), val), time.Hour).SetVal("OK")

	assert.NoError(s.T(), s.cache.Set(context.Background(), "key1", val, 0))
}

func (s *CacheTestSuite) TestSet_Unserialisable() {
	err := s.cache.Set(context.Background(), "key1", make(chan int), time.Minute)
	assert.True(s.T(), pkgerrors.IsCode(err, pkgerrors.ErrCodeSerialization))
}

func (s *CacheTestSuite) TestGetOrSet_Hit() {
	val := testStruct{Name: "ashtottari", Cycle: 2}
	s.mock.ExpectGet("test:key1").SetVal(encode(s.T(), val))

	called := false
	var dest testStruct
	err := s.cache.GetOrSet(context.Background(), "key1", &dest, time.Minute, func(context.Context) (interface{}, error) {
		called = true
		return val, nil
	})
	require.NoError(s.T(), err)
	assert.False(s.T(), called)
	assert.Equal(s.T(), val, dest)
}

func (s *CacheTestSuite) TestGetOrSet_MissLoadsAndStores() {
	val := testStruct{Name: "vimshottari", Cycle: 3}
	s.mock.ExpectGet("test:key1").RedisNil()
	s.mock.ExpectSet("test:key1", encode(s.T(), val), time.Minute).SetVal("OK")

	var dest testStruct
	err := s.cache.GetOrSet(context.Background(), "key1", &dest, time.Minute, func(context.Context) (interface{}, error) {
		return val, nil
	})
	require.NoError(s.T(), err)
	assert.Equal(s.T(), val, dest)
}

func (s *CacheTestSuite) TestGetOrSet_LoaderError() {
	s.mock.ExpectGet("test:key1").RedisNil()
	boom := pkgerrors.New(pkgerrors.ErrCodeInvalidPeriodRequest, "bad request")

	var dest testStruct
	err := s.cache.GetOrSet(context.Background(), "key1", &dest, time.Minute, func(context.Context) (interface{}, error) {
		return nil, boom
	})
	assert.True(s.T(), pkgerrors.IsCode(err, pkgerrors.ErrCodeInvalidPeriodRequest))
}

func (s *CacheTestSuite) TestGetOrSet_StoreFailureStillReturnsValue() {
	val := testStruct{Name: "yogini", Cycle: 1}
	s.mock.ExpectGet("test:key1").RedisNil()
	s.mock.ExpectSet("test:key1", encode(s.T(), val), time.Minute).SetErr(errors.New("read only replica"))

	var dest testStruct
	err := s.cache.GetOrSet(context.Background(), "key1", &dest, time.Minute, func(context.Context) (interface{}, error) {
		return val, nil
	})
	require.NoError(s.T(), err)
	assert.Equal(s.T(), val, dest)
}

func (s *CacheTestSuite) TestDeleteByPrefix() {
	s.mock.ExpectScan(0, "test:tl:*", 100).SetVal([]string{"test:tl:a", "test:tl:b"}, 7)
	s.mock.ExpectDel("test:tl:a", "test:tl:b").SetVal(2)
	s.mock.ExpectScan(7, "test:tl:*", 100).SetVal([]string{"test:tl:c"}, 0)
	s.mock.ExpectDel("test:tl:c").SetVal(1)

	n, err := s.cache.DeleteByPrefix(context.Background(), "tl:")
	require.NoError(s.T(), err)
	assert.Equal(s.T(), int64(3), n)
}

func (s *CacheTestSuite) TestClosedClient() {
	s.mock.ExpectPing().SetVal("PONG")
	require.NoError(s.T(), s.cache.Ping(context.Background()))

	require.NoError(s.T(), s.client.Close())
	require.NoError(s.T(), s.client.Close())
	assert.Equal(s.T(), ErrClientClosed, s.cache.Ping(context.Background()))

	var dest testStruct
	err := s.cache.Get(context.Background(), "key1", &dest)
	assert.True(s.T(), pkgerrors.IsCode(err, pkgerrors.ErrCodeCacheError))
	assert.ErrorIs(s.T(), err, ErrClientClosed)
}

func TestCacheSuite(t *testing.T) {
	suite.Run(t, new(CacheTestSuite))
}

func TestJitterTTL(t *testing.T) {
	db, _ := redismock.NewClientMock()
	client := NewClientFromUniversal(db, config.RedisConfig{}, logging.NewNopLogger())
	c := NewRedisCache(client, logging.NewNopLogger(), WithTTLJitter(0.1)).(*redisCache)
	for i := 0; i < 50; i++ {
		got := c.jitterTTL(time.Hour)
		assert.GreaterOrEqual(t, got, 54*time.Minute)
		assert.LessOrEqual(t, got, 66*time.Minute)
	}
	assert.Equal(t, time.Duration(0), c.jitterTTL(0))
}

func TestNewClient_Defaults(t *testing.T) {
	db, _ := redismock.NewClientMock()
	c := NewClientFromUniversal(db, config.RedisConfig{}, logging.NewNopLogger())
	cfg := c.Config()
	assert.Equal(t, "jyotish:", cfg.KeyPrefix)
	assert.Equal(t, 24*time.Hour, cfg.DefaultTTL)
	assert.Positive(t, cfg.PoolSize)
}

func TestNewClient_Unreachable(t *testing.T) {
	_, err := NewClient(config.RedisConfig{
		Addr:        "127.0.0.1:1",
		DialTimeout: 200 * time.Millisecond,
		ReadTimeout: 200 * time.Millisecond,
	}, logging.NewNopLogger())
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.ErrCodeServiceUnavailable))
}

//Personal.AI order the ending
