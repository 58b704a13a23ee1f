// internal/pkg/nacos/client.go
package nacos

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nacos-group/nacos-sdk-go/v2/clients"
	"github.com/nacos-group/nacos-sdk-go/v2/clients/config_client"
	"github.com/nacos-group/nacos-sdk-go/v2/clients/naming_client"
	"github.com/nacos-group/nacos-sdk-go/v2/common/constant"
	"github.com/nacos-group/nacos-sdk-go/v2/vo"
	"github.com/rs/zerolog/log"
)

const defaultGroup = "DEFAULT_GROUP"

// Client 同时封装了 Nacos 的命名客户端（服务注册）和配置客户端（远程配置）
type Client struct {
	namingClient naming_client.INamingClient
	configClient config_client.IConfigClient

	namespaceID string
	groupName   string
}

// ParseServerConfigs 把 "ip1:port1,ip2:port2" 解析为 Nacos 服务端配置
func ParseServerConfigs(addrs string) ([]constant.ServerConfig, error) {
	var serverConfigs []constant.ServerConfig
	for _, addr := range strings.Split(addrs, ",") {
		addr = strings.TrimSpace(addr)
		if addr == "" {
			continue
		}
		host, portStr, ok := strings.Cut(addr, ":")
		if !ok {
			return nil, fmt.Errorf("invalid nacos address format: %s", addr)
		}
		port, err := strconv.ParseUint(portStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid port in nacos address: %s", portStr)
		}
		serverConfigs = append(serverConfigs, *constant.NewServerConfig(host, port))
	}
	if len(serverConfigs) == 0 {
		return nil, fmt.Errorf("no nacos server address configured")
	}
	return serverConfigs, nil
}

// NewClient 创建并返回一个新的 Nacos 客户端
func NewClient(addrs, namespaceID, groupName string) (*Client, error) {
	if namespaceID == "" {
		log.Warn().Msg("NACOS_NAMESPACE is not set. Using default public namespace.")
	}
	if groupName == "" {
		groupName = defaultGroup
	}

	serverConfigs, err := ParseServerConfigs(addrs)
	if err != nil {
		return nil, err
	}

	clientConfig := *constant.NewClientConfig(
		constant.WithNotLoadCacheAtStart(true),
		constant.WithLogDir("/tmp/nacos/log"),
		constant.WithCacheDir("/tmp/nacos/cache"),
		constant.WithLogLevel("warn"),
		constant.WithNamespaceId(namespaceID),
	)
	param := vo.NacosClientParam{
		ClientConfig:  &clientConfig,
		ServerConfigs: serverConfigs,
	}

	namingClient, err := clients.NewNamingClient(param)
	if err != nil {
		return nil, fmt.Errorf("failed to create nacos naming client: %w", err)
	}
	configClient, err := clients.NewConfigClient(param)
	if err != nil {
		return nil, fmt.Errorf("failed to create nacos config client: %w", err)
	}

	log.Info().Str("servers", addrs).Str("group", groupName).Msg("Connected to Nacos.")
	return &Client{
		namingClient: namingClient,
		configClient: configClient,
		namespaceID:  namespaceID,
		groupName:    groupName,
	}, nil
}

// RegisterServiceInstance 注册一个临时实例，心跳断开后会自动摘除
func (c *Client) RegisterServiceInstance(serviceName, ip string, port int) error {
	success, err := c.namingClient.RegisterInstance(vo.RegisterInstanceParam{
		Ip:          ip,
		Port:        uint64(port),
		ServiceName: serviceName,
		Weight:      10,
		Enable:      true,
		Healthy:     true,
		Ephemeral:   true,
		GroupName:   c.groupName,
	})
	if err != nil {
		return fmt.Errorf("failed to register service with nacos: %w", err)
	}
	if !success {
		return fmt.Errorf("nacos registration was not successful for service: %s", serviceName)
	}
	log.Info().Msgf("Service '%s' registered to Nacos (%s:%d)", serviceName, ip, port)
	return nil
}

// DeregisterServiceInstance 从 Nacos 注销一个服务实例
func (c *Client) DeregisterServiceInstance(serviceName, ip string, port int) error {
	_, err := c.namingClient.DeregisterInstance(vo.DeregisterInstanceParam{
		Ip:          ip,
		Port:        uint64(port),
		ServiceName: serviceName,
		Ephemeral:   true,
		GroupName:   c.groupName,
	})
	if err != nil {
		return fmt.Errorf("failed to deregister service with nacos: %w", err)
	}
	log.Info().Msgf("Service '%s' deregistered from Nacos (%s:%d)", serviceName, ip, port)
	return nil
}

// DiscoverServiceInstance 使用 Nacos 内置的负载均衡选出一个健康实例
func (c *Client) DiscoverServiceInstance(serviceName string) (string, int, error) {
	instance, err := c.namingClient.SelectOneHealthyInstance(vo.SelectOneHealthInstanceParam{
		ServiceName: serviceName,
		GroupName:   c.groupName,
	})
	if err != nil {
		return "", 0, fmt.Errorf("failed to discover healthy instance for service '%s': %w", serviceName, err)
	}
	if instance == nil {
		return "", 0, fmt.Errorf("no healthy instance available for service '%s'", serviceName)
	}
	return instance.Ip, int(instance.Port), nil
}

// GetConfig 读取远程配置内容
func (c *Client) GetConfig(dataID string) (string, error) {
	content, err := c.configClient.GetConfig(vo.ConfigParam{DataId: dataID, Group: c.groupName})
	if err != nil {
		return "", fmt.Errorf("failed to get nacos config %s: %w", dataID, err)
	}
	return content, nil
}

// ListenConfig 监听远程配置变更，每次变更都会回调 onChange
func (c *Client) ListenConfig(dataID string, onChange func(content string)) error {
	return c.configClient.ListenConfig(vo.ConfigParam{
		DataId: dataID,
		Group:  c.groupName,
		OnChange: func(namespace, group, dataId, data string) {
			log.Info().Str("data_id", dataId).Msg("Nacos config changed.")
			onChange(data)
		},
	})
}

// Close 关闭配置客户端；命名客户端的临时节点会在心跳停止后自动过期
func (c *Client) Close() {
	if c.configClient != nil {
		c.configClient.CloseClient()
	}
}
