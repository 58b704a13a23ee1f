// internal/pkg/lock/zookeeper.go
package lock

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-zookeeper/zk"
	"github.com/rs/zerolog/log"
)

const lockRoot = "/mycelium_locks" // 所有分布式锁的根节点

var ErrLockTimeout = errors.New("timeout waiting for lock")

// Locker 是分布式锁的抽象，Acquire 成功后返回释放函数
type Locker interface {
	Acquire(ctx context.Context, resourceID string) (release func() error, err error)
}

// ZKLocker 基于 ZooKeeper 临时顺序节点实现公平锁
type ZKLocker struct {
	conn *zk.Conn
}

// Connect 建立 ZooKeeper 连接并确保根节点存在
func Connect(servers []string, sessionTimeout time.Duration) (*ZKLocker, error) {
	conn, _, err := zk.Connect(servers, sessionTimeout, zk.WithLogInfo(false))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to zookeeper: %w", err)
	}
	l := &ZKLocker{conn: conn}
	if err := l.ensurePath(lockRoot); err != nil {
		conn.Close()
		return nil, err
	}
	log.Info().Strs("servers", servers).Msg("Connected to ZooKeeper.")
	return l, nil
}

func (l *ZKLocker) Close() {
	l.conn.Close()
}

func (l *ZKLocker) ensurePath(path string) error {
	_, err := l.conn.Create(path, []byte(""), 0, zk.WorldACL(zk.PermAll))
	if err != nil && !errors.Is(err, zk.ErrNodeExists) {
		return fmt.Errorf("failed to create lock node %s: %w", path, err)
	}
	return nil
}

// Acquire 在 /mycelium_locks/<resourceID> 下排队，直到成为最小节点或 ctx 结束
func (l *ZKLocker) Acquire(ctx context.Context, resourceID string) (func() error, error) {
	lockPath := lockRoot + "/" + resourceID
	if err := l.ensurePath(lockPath); err != nil {
		return nil, err
	}

	nodePath, err := l.conn.CreateProtectedEphemeralSequential(lockPath+"/lock-", []byte(""), zk.WorldACL(zk.PermAll))
	if err != nil {
		return nil, fmt.Errorf("failed to create sequential node: %w", err)
	}
	release := func() error {
		err := l.conn.Delete(nodePath, -1)
		if err != nil && !errors.Is(err, zk.ErrNoNode) {
			return fmt.Errorf("failed to delete lock node: %w", err)
		}
		return nil
	}

	myNode := strings.TrimPrefix(nodePath, lockPath+"/")
	for {
		children, _, err := l.conn.Children(lockPath)
		if err != nil {
			_ = release()
			return nil, fmt.Errorf("failed to get children nodes: %w", err)
		}
		// protected 节点带 GUID 前缀，按序号部分排序
		sort.Slice(children, func(i, j int) bool { return sequenceOf(children[i]) < sequenceOf(children[j]) })

		idx := -1
		for i, child := range children {
			if child == myNode {
				idx = i
				break
			}
		}
		if idx < 0 {
			return nil, errors.New("lock node disappeared, session probably expired")
		}
		if idx == 0 {
			return release, nil
		}

		// 只监听前一个节点，避免惊群
		exists, _, events, err := l.conn.ExistsW(lockPath + "/" + children[idx-1])
		if err != nil {
			_ = release()
			return nil, fmt.Errorf("failed to watch previous node: %w", err)
		}
		if !exists {
			continue
		}

		select {
		case <-events:
		case <-ctx.Done():
			_ = release()
			return nil, fmt.Errorf("%w: %s", ErrLockTimeout, resourceID)
		}
	}
}

func sequenceOf(node string) string {
	if i := strings.LastIndex(node, "lock-"); i >= 0 {
		return node[i+len("lock-"):]
	}
	return node
}

// NoopLocker 在未配置 ZooKeeper 时使用，单实例部署下没有并发扣减问题
type NoopLocker struct{}

func (NoopLocker) Acquire(ctx context.Context, resourceID string) (func() error, error) {
	return func() error { return nil }, nil
}
