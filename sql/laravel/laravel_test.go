// Copyright 2021-present The Atlas Authors. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

package laravel

import (
	"strings"
	"testing"

	"ariga.io/blueprint/sql/definition"
	"ariga.io/blueprint/sql/mysql"

	"github.com/stretchr/testify/require"
)

var named = Options{
	UseDefinedIndexNames:           true,
	UseDefinedUniqueKeyIndexNames:  true,
	UseDefinedForeignKeyIndexNames: true,
}

func TestRenderIndex(t *testing.T) {
	tests := []struct {
		clause string
		opts   Options
		want   string
	}{
		{
			clause: "KEY `password_resets_email_index` (`email`)",
			opts:   named,
			want:   "$table->index(['email'], 'password_resets_email_index')",
		},
		{
			clause: "KEY `password_resets_email_index` (`email`)",
			want:   "$table->index(['email'])",
		},
		{
			clause: "PRIMARY KEY (`id`)",
			opts:   named,
			want:   "$table->primary(['id'])",
		},
		{
			clause: "PRIMARY KEY (`email`,`token`)",
			opts:   named,
			want:   "$table->primary(['email', 'token'], 'primary')",
		},
		{
			clause: "PRIMARY KEY (`email`,`token`)",
			want:   "$table->primary(['email', 'token'])",
		},
		{
			clause: "UNIQUE KEY `users_email_unique` (`email`)",
			opts:   named,
			want:   "$table->unique(['email'], 'users_email_unique')",
		},
		{
			clause: "UNIQUE KEY `users_email_unique` (`email`)",
			opts:   Options{UseDefinedIndexNames: true, UseDefinedForeignKeyIndexNames: true},
			want:   "$table->unique(['email'])",
		},
		{
			clause: "UNIQUE KEY `n` (`a`,`b`)",
			opts:   named,
			want:   "$table->unique(['a', 'b'], 'n')",
		},
		{
			clause: "FULLTEXT KEY `posts_title_body_fulltext` (`title`,`body`)",
			opts:   named,
			want:   "$table->fullText(['title', 'body'], 'posts_title_body_fulltext')",
		},
		{
			clause: "SPATIAL KEY `places_location_spatialindex` (`location`)",
			want:   "$table->spatialIndex(['location'])",
		},
		{
			clause: "CONSTRAINT `fk_bank_accounts_user_id` FOREIGN KEY (`user_id`) REFERENCES `users` (`id`)",
			opts:   named,
			want:   "$table->foreign('user_id', 'fk_bank_accounts_user_id')->references('id')->on('users')",
		},
		{
			clause: "CONSTRAINT `fk_bank_accounts_user_id` FOREIGN KEY (`user_id`) REFERENCES `users` (`id`)",
			opts:   Options{UseDefinedIndexNames: true, UseDefinedUniqueKeyIndexNames: true},
			want:   "$table->foreign('user_id')->references('id')->on('users')",
		},
		{
			clause: "CONSTRAINT `fk` FOREIGN KEY (`user_id`,`other_id`) REFERENCES `users` (`id`,`second_id`)",
			opts:   named,
			want:   "$table->foreign(['user_id', 'other_id'], 'fk')->references(['id', 'second_id'])->on('users')",
		},
		{
			clause: "CONSTRAINT `fk` FOREIGN KEY (`user_id`) REFERENCES `users` (`id`) ON DELETE CASCADE ON UPDATE CASCADE",
			opts:   named,
			want:   "$table->foreign('user_id', 'fk')->references('id')->on('users')->onUpdate('cascade')->onDelete('cascade')",
		},
		{
			clause: "CONSTRAINT `fk` FOREIGN KEY (`user_id`) REFERENCES `users` (`id`) ON UPDATE NO ACTION",
			opts:   named,
			want:   "$table->foreign('user_id', 'fk')->references('id')->on('users')->onUpdate('restrict')",
		},
		{
			clause: "CONSTRAINT `fk` FOREIGN KEY (`user_id`) REFERENCES `users` (`id`) ON UPDATE SET NULL",
			opts:   named,
			want:   "$table->foreign('user_id', 'fk')->references('id')->on('users')->onUpdate('set NULL')",
		},
		{
			clause: "CONSTRAINT `fk` FOREIGN KEY (`user_id`) REFERENCES `users` (`id`) ON DELETE SET DEFAULT",
			opts:   named,
			want:   "$table->foreign('user_id', 'fk')->references('id')->on('users')->onDelete('set DEFAULT')",
		},
		{
			clause: "CONSTRAINT `t1_chk_1` CHECK (((`role` <> _utf8mb4'admin') or (`company_id` is not null)))",
			want:   "$table->checkConstraint(\"(`role` <> _utf8mb4'admin') or (`company_id` is not null)\", 't1_chk_1')",
		},
		{
			clause: "CONSTRAINT `c` CHECK ((`price` > \"$0\"))",
			want:   "$table->checkConstraint(\"`price` > \\\"\\$0\\\"\", 'c')",
		},
	}
	for _, tt := range tests {
		t.Run(tt.clause, func(t *testing.T) {
			idx, err := mysql.ParseIndex(tt.clause)
			require.NoError(t, err)
			got, err := RenderIndex(idx, tt.opts)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestRenderIndex_NameGates(t *testing.T) {
	idx, err := mysql.ParseIndex("UNIQUE KEY `n` (`a`,`b`)")
	require.NoError(t, err)
	for _, opts := range []Options{named, {}, {UseDefinedIndexNames: true}} {
		got, err := RenderIndex(idx, opts)
		require.NoError(t, err)
		require.Contains(t, got, "['a', 'b']")
		require.Equal(t, opts.UseDefinedUniqueKeyIndexNames, strings.Contains(got, "'n'"))
	}
}

func TestRenderIndex_Unknown(t *testing.T) {
	_, err := RenderIndex(nil, named)
	require.ErrorIs(t, err, ErrUnknownDefinition)
	_, err = RenderColumn(nil, named)
	require.ErrorIs(t, err, ErrUnknownDefinition)
	_, err = RenderColumn(&definition.ColumnDef{Name: "c"}, named)
	require.ErrorIs(t, err, ErrUnknownDefinition)
}

func TestRenderColumn(t *testing.T) {
	tests := []struct {
		name string
		c    definition.Column
		opts Options
		want string
	}{
		{name: "increments", c: &definition.Identity{Name: "id"}, want: "$table->increments('id')"},
		{name: "id", c: &definition.Identity{Name: "id", Big: true}, want: "$table->id()"},
		{name: "id v6", c: &definition.Identity{Name: "id", Big: true}, opts: Options{Version: "v6"}, want: "$table->bigIncrements('id')"},
		{name: "id v7", c: &definition.Identity{Name: "id", Big: true}, opts: Options{Version: "7.30"}, want: "$table->id()"},
		{name: "big increments", c: &definition.Identity{Name: "uid", Big: true}, want: "$table->bigIncrements('uid')"},
		{name: "morphs", c: &definition.Morphs{Name: "user"}, want: "$table->morphs('user')"},
		{name: "uuid morphs", c: &definition.Morphs{Name: "user", UUID: true}, want: "$table->uuidMorphs('user')"},
		{name: "nullable uuid morphs", c: &definition.Morphs{Name: "user", UUID: true, Null: true}, want: "$table->uuidMorphs('user')->nullable()"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RenderColumn(tt.c, tt.opts)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestRenderColumn_Clause(t *testing.T) {
	tests := []struct {
		clause string
		opts   Options
		patch  func(*definition.ColumnDef)
		want   string
	}{
		{clause: "`user_id` int(9) unsigned NOT NULL", want: "$table->unsignedInteger('user_id')"},
		{clause: "`note` varchar(255) NOT NULL", want: "$table->string('note')"},
		{clause: "`code` varchar(32) NOT NULL", want: "$table->string('code', 32)"},
		{clause: "`id` int(9) unsigned NOT NULL PRIMARY KEY", want: "$table->unsignedInteger('id')->primary()"},
		{clause: "`n` smallint NOT NULL AUTO_INCREMENT PRIMARY KEY", want: "$table->smallInteger('n')->autoIncrement()->primary()"},
		{clause: "`active` tinyint(1) NOT NULL DEFAULT '1'", want: "$table->boolean('active')->default('1')"},
		{clause: "`level` tinyint unsigned DEFAULT NULL", want: "$table->unsignedTinyInteger('level')->nullable()"},
		{clause: "`views` bigint unsigned NOT NULL DEFAULT 0", want: "$table->unsignedBigInteger('views')->default(0)"},
		{clause: "`amount` decimal(8,2) NOT NULL DEFAULT 0.00", want: "$table->decimal('amount', 8, 2)->default(0.00)"},
		{clause: "`ratio` double NOT NULL", want: "$table->double('ratio')"},
		{clause: "`hash` char(64) NOT NULL", want: "$table->char('hash', 64)"},
		{clause: "`body` longtext NOT NULL", want: "$table->longText('body')"},
		{clause: "`blob` mediumblob", want: "$table->binary('blob')->nullable()"},
		{clause: "`status` enum('active','banned') NOT NULL DEFAULT 'active'", want: "$table->enum('status', ['active', 'banned'])->default('active')"},
		{clause: "`day` date NOT NULL", want: "$table->date('day')"},
		{clause: "`at` datetime(3) NOT NULL", want: "$table->dateTime('at', 3)"},
		{clause: "`data` json NOT NULL", want: "$table->json('data')"},
		{clause: "`path` linestring NOT NULL", want: "$table->lineString('path')"},
		{clause: "`flags` bit(8) NOT NULL", want: "$table->addColumn('bit', 'flags')"},
		{clause: "`uuid` char(36) NOT NULL DEFAULT (uuid())", want: "$table->char('uuid', 36)->default(DB::raw('uuid()'))"},
		{clause: "`b` bit(1) NOT NULL DEFAULT b'0'", want: "$table->addColumn('bit', 'b')->default(DB::raw('b\\'0\\''))"},
		{
			clause: "`name` varchar(255) CHARACTER SET utf8mb4 COLLATE utf8mb4_bin NOT NULL UNIQUE COMMENT 'user''s name'",
			want:   "$table->string('name')->charset('utf8mb4')->collation('utf8mb4_bin')->unique()->comment('user\\'s name')",
		},
		{
			clause: "`full_name` varchar(255) GENERATED ALWAYS AS (concat(`first`,' ',`last`)) VIRTUAL",
			want:   "$table->string('full_name')->nullable()->virtualAs('concat(`first`,\\' \\',`last`)')",
		},
		{
			clause: "`total` int AS ((`a` + `b`)) STORED NOT NULL",
			want:   "$table->integer('total')->storedAs('`a` + `b`')",
		},
		{
			clause: "created_at timestamp default CURRENT_TIMESTAMP not null",
			patch:  func(c *definition.ColumnDef) { c.UseCurrent = true },
			want:   "$table->timestamp('created_at')->useCurrent()",
		},
		{
			clause: "`created_at` timestamp NOT NULL DEFAULT CURRENT_TIMESTAMP",
			want:   "$table->timestamp('created_at')->default(DB::raw('CURRENT_TIMESTAMP'))",
		},
		{
			clause: "`updated_at` timestamp NULL DEFAULT NULL ON UPDATE CURRENT_TIMESTAMP",
			patch:  func(c *definition.ColumnDef) { c.UseCurrentOnUpdate = true },
			want:   "$table->timestamp('updated_at')->nullable()->useCurrentOnUpdate()",
		},
		{
			clause: "`updated_at` timestamp NULL DEFAULT NULL ON UPDATE CURRENT_TIMESTAMP",
			opts:   Options{Version: "v7"},
			patch:  func(c *definition.ColumnDef) { c.UseCurrentOnUpdate = true },
			want:   "$table->timestamp('updated_at')->nullable()->default(DB::raw('CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP'))",
		},
		{
			clause: "`t` timestamp NOT NULL DEFAULT '2000-01-01 00:00:00' ON UPDATE CURRENT_TIMESTAMP",
			patch:  func(c *definition.ColumnDef) { c.UseCurrentOnUpdate = true },
			want:   "$table->timestamp('t')->default('2000-01-01 00:00:00')->useCurrentOnUpdate()",
		},
		{
			clause: "`t` timestamp NOT NULL DEFAULT '2000-01-01 00:00:00' ON UPDATE CURRENT_TIMESTAMP",
			opts:   Options{Version: "v7"},
			patch:  func(c *definition.ColumnDef) { c.UseCurrentOnUpdate = true },
			want:   "$table->timestamp('t')->default(DB::raw('\\'2000-01-01 00:00:00\\' ON UPDATE CURRENT_TIMESTAMP'))",
		},
		{
			clause: "`touched_at` timestamp(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6) ON UPDATE CURRENT_TIMESTAMP(6)",
			patch:  func(c *definition.ColumnDef) { c.UseCurrent, c.UseCurrentOnUpdate = true, true },
			want:   "$table->timestamp('touched_at', 6)->useCurrent()->useCurrentOnUpdate()",
		},
	}
	for _, tt := range tests {
		t.Run(tt.clause, func(t *testing.T) {
			c, err := mysql.ParseColumn(tt.clause)
			require.NoError(t, err)
			if tt.patch != nil {
				tt.patch(c)
			}
			got, err := RenderColumn(c, tt.opts)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestOptions_Before(t *testing.T) {
	require.False(t, Options{}.before("v8"))
	require.True(t, Options{Version: "v7"}.before("v8"))
	require.True(t, Options{Version: "7.30.1"}.before("v8"))
	require.False(t, Options{Version: "v8"}.before("v8"))
	require.False(t, Options{Version: "10"}.before("v8"))
}
