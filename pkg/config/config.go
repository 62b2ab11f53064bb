// Copyright 2026 fanjia1024
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config 应用配置结构体
type Config struct {
	Batch BatchConfig `mapstructure:"batch"`
}

// BatchConfig 确定性批处理核心的配置：trace 输出格式、默认重试策略与离线回放源路径。
// 核心本身不读取任何配置；batchctl 只在 CLI 边界使用其中的 trace_format。
type BatchConfig struct {
	TraceFormat  string            `mapstructure:"trace_format"`  // json | text，默认 text
	RetryPolicy  BatchRetryPolicy  `mapstructure:"retry_policy"`  // 加载后不被任何组件读取；coordinator 始终使用 coordinator.DefaultRetryPolicy
	ReplaySource BatchReplaySource `mapstructure:"replay_source"` // 加载后不被任何组件读取；batchctl replay 从命令行参数取记录文件路径
}

// BatchRetryPolicy 镜像核心内部的 spec.RetryPolicy，供配置层以普通数据形式表达。
type BatchRetryPolicy struct {
	MaxAttempts   uint32 `mapstructure:"max_attempts"`
	HaltOnFailure bool   `mapstructure:"halt_on_failure"`
}

// BatchReplaySource 描述离线回放驱动从哪里加载持久化的 ExecutionRecord 序列。
type BatchReplaySource struct {
	Path string `mapstructure:"path"` // JSON 文件路径；空表示使用内存源（仅用于测试）
}

// LoadConfig 加载配置文件
func LoadConfig(configPath string) (*Config, error) {
	viper.SetConfigFile(configPath)
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("无法读取配置文件: %w", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("无法解析配置文件: %w", err)
	}

	return &config, nil
}

// LoadBatchConfig 加载批处理 CLI 配置；configPath 为空时读取 configs/batch.yaml。
// 文件无法读取或解析时返回内置默认值且不报错。
func LoadBatchConfig(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = "configs/batch.yaml"
	}
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return &Config{Batch: defaultBatchConfig()}, nil
	}
	if cfg.Batch.TraceFormat == "" {
		cfg.Batch.TraceFormat = defaultBatchConfig().TraceFormat
	}
	if cfg.Batch.RetryPolicy.MaxAttempts == 0 {
		cfg.Batch.RetryPolicy = defaultBatchConfig().RetryPolicy
	}
	return cfg, nil
}

func defaultBatchConfig() BatchConfig {
	return BatchConfig{
		TraceFormat: "text",
		RetryPolicy: BatchRetryPolicy{MaxAttempts: 1, HaltOnFailure: true},
	}
}
