package statistics

import (
	"fmt"
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/criadoresdevideo/videoclub/app/models"
	"github.com/criadoresdevideo/videoclub/internal/pkg/cache"
	"github.com/criadoresdevideo/videoclub/internal/pkg/database"
)

const (
	CacheKeyVideosTotal = "statistics:videos:total"
	CacheKeyVideosDaily = "statistics:videos:daily:%s" // Format with date YYYY-MM-DD
	CacheKeyUsers       = "statistics:users:total"
	CacheExpiration     = 30 * time.Minute
)

// StatisticsData holds the counters shown on the home page.
type StatisticsData struct {
	TotalUsers  int
	TotalVideos int
	TodayVideos int
}

var (
	lastCacheUpdate     time.Time
	cacheUpdateMutex    sync.Mutex
	cacheUpdateInterval = 5 * time.Minute
)

// ShouldUpdateCache reports whether the cached counters are stale.
func ShouldUpdateCache() bool {
	cacheUpdateMutex.Lock()
	defer cacheUpdateMutex.Unlock()

	return time.Since(lastCacheUpdate) > cacheUpdateInterval
}

// UpdateCacheIfNeeded refreshes the cached counters when the update
// interval has elapsed.
func UpdateCacheIfNeeded() {
	if ShouldUpdateCache() {
		cacheUpdateMutex.Lock()
		defer cacheUpdateMutex.Unlock()

		if err := UpdateStatisticsCache(); err != nil {
			log.Printf("Error updating statistics cache: %v", err)
		} else {
			lastCacheUpdate = time.Now()
		}
	}
}

// ResetCacheUpdateTimer forces the next UpdateCacheIfNeeded call to refresh.
func ResetCacheUpdateTimer() {
	cacheUpdateMutex.Lock()
	defer cacheUpdateMutex.Unlock()

	lastCacheUpdate = time.Time{}
}

// UpdateStatisticsCache recounts users and videos and stores the results
// in the cache.
func UpdateStatisticsCache() error {
	db := database.GetDB()

	var totalVideos int64
	if err := db.Model(&models.Video{}).Count(&totalVideos).Error; err != nil {
		log.Printf("Error counting total videos: %v", err)
		return err
	}

	var todayVideos int64
	today := time.Now().Format("2006-01-02")
	todayStart, _ := time.Parse("2006-01-02", today)
	todayEnd := todayStart.Add(24 * time.Hour)

	if err := db.Model(&models.Video{}).Where("created_at BETWEEN ? AND ?", todayStart, todayEnd).Count(&todayVideos).Error; err != nil {
		log.Printf("Error counting today's videos: %v", err)
		return err
	}

	var totalUsers int64
	if err := db.Model(&models.User{}).Count(&totalUsers).Error; err != nil {
		log.Printf("Error counting total users: %v", err)
		return err
	}

	if err := cache.Set(CacheKeyVideosTotal, strconv.FormatInt(totalVideos, 10), CacheExpiration); err != nil {
		log.Printf("Error caching total videos: %v", err)
		return err
	}

	dailyKey := fmt.Sprintf(CacheKeyVideosDaily, today)
	if err := cache.Set(dailyKey, strconv.FormatInt(todayVideos, 10), CacheExpiration); err != nil {
		log.Printf("Error caching today's videos: %v", err)
		return err
	}

	if err := cache.Set(CacheKeyUsers, strconv.FormatInt(totalUsers, 10), CacheExpiration); err != nil {
		log.Printf("Error caching total users: %v", err)
		return err
	}

	return nil
}

// GetTotalVideos returns the total video count from cache, falling back to
// the database on a cache miss.
func GetTotalVideos() int {
	val, err := cache.Get(CacheKeyVideosTotal)
	if err != nil {
		var count int64
		db := database.GetDB()
		if err := db.Model(&models.Video{}).Count(&count).Error; err != nil {
			log.Printf("Error counting total videos: %v", err)
			return 0
		}

		if err := cache.Set(CacheKeyVideosTotal, strconv.FormatInt(count, 10), CacheExpiration); err != nil {
			log.Printf("Error caching total videos: %v", err)
		}

		return int(count)
	}

	count, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0
	}

	return int(count)
}

// GetTodayVideos returns the number of videos posted today.
func GetTodayVideos() int {
	today := time.Now().Format("2006-01-02")
	dailyKey := fmt.Sprintf(CacheKeyVideosDaily, today)

	val, err := cache.Get(dailyKey)
	if err != nil {
		var count int64
		todayStart, _ := time.Parse("2006-01-02", today)
		todayEnd := todayStart.Add(24 * time.Hour)

		db := database.GetDB()
		if err := db.Model(&models.Video{}).Where("created_at BETWEEN ? AND ?", todayStart, todayEnd).Count(&count).Error; err != nil {
			log.Printf("Error counting today's videos: %v", err)
			return 0
		}

		if err := cache.Set(dailyKey, strconv.FormatInt(count, 10), CacheExpiration); err != nil {
			log.Printf("Error caching today's videos: %v", err)
		}

		return int(count)
	}

	count, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0
	}

	return int(count)
}

// GetTotalUsers returns the total user count from cache, falling back to
// the database on a cache miss.
func GetTotalUsers() int {
	val, err := cache.Get(CacheKeyUsers)
	if err != nil {
		var count int64
		db := database.GetDB()
		if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
			log.Printf("Error counting total users: %v", err)
			return 0
		}

		if err := cache.Set(CacheKeyUsers, strconv.FormatInt(count, 10), CacheExpiration); err != nil {
			log.Printf("Error caching total users: %v", err)
		}

		return int(count)
	}

	count, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0
	}

	return int(count)
}

// GetStatistics returns all home page counters, refreshing the cache when
// it is stale.
func GetStatistics() StatisticsData {
	UpdateCacheIfNeeded()

	return StatisticsData{
		TotalUsers:  GetTotalUsers(),
		TotalVideos: GetTotalVideos(),
		TodayVideos: GetTodayVideos(),
	}
}
